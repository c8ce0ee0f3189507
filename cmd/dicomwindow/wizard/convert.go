package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/types"
	"github.com/mrsinham/dicomwindow/internal/config"
	"github.com/mrsinham/dicomwindow/internal/window"
)

// ToConfig converts WizardState to a validated configuration.
func ToConfig(s *WizardState) (*config.Config, error) {
	cfg := config.Default()
	cfg.InputDir = strings.TrimSpace(s.Settings.InputDir)
	cfg.OutputDir = strings.TrimSpace(s.Settings.OutputDir)
	cfg.Recursive = s.Settings.Recursive
	cfg.Annotate = s.Settings.Annotate
	if s.Settings.Degenerate != "" {
		cfg.Degenerate = s.Settings.Degenerate
	}

	if q := strings.TrimSpace(s.Settings.Quality); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return nil, fmt.Errorf("invalid jpeg quality %q", q)
		}
		cfg.JPEGQuality = n
	}
	if r := strings.TrimSpace(s.Settings.Resize); r != "" {
		n, err := strconv.Atoi(r)
		if err != nil {
			return nil, fmt.Errorf("invalid resize %q", r)
		}
		cfg.Resize = n
	}

	cfg.Windows = make([]config.WindowYAML, 0, len(s.Channels))
	for i, ch := range s.Channels {
		w, err := channelToWindow(ch)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		cfg.Windows = append(cfg.Windows, w)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func channelToWindow(ch types.Channel) (config.WindowYAML, error) {
	if ch.Preset != "" && ch.Preset != types.CustomPreset {
		return config.WindowYAML{Preset: ch.Preset}, nil
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(ch.Width), 64)
	if err != nil {
		return config.WindowYAML{}, fmt.Errorf("invalid width %q", ch.Width)
	}
	level, err := strconv.ParseFloat(strings.TrimSpace(ch.Level), 64)
	if err != nil {
		return config.WindowYAML{}, fmt.Errorf("invalid level %q", ch.Level)
	}
	return config.WindowYAML{Name: strings.TrimSpace(ch.Name), Width: &width, Level: &level}, nil
}

// FromConfig converts a configuration into WizardState so that it can be
// edited. Windows that override a preset become custom channels.
func FromConfig(cfg *config.Config) *WizardState {
	s := &WizardState{
		Settings: types.Settings{
			InputDir:   cfg.InputDir,
			OutputDir:  cfg.OutputDir,
			Recursive:  cfg.Recursive,
			Degenerate: cfg.Degenerate,
			Quality:    strconv.Itoa(cfg.JPEGQuality),
			Resize:     strconv.Itoa(cfg.Resize),
			Annotate:   cfg.Annotate,
		},
	}
	if s.Settings.Degenerate == "" {
		s.Settings.Degenerate = string(window.DegenerateZero)
	}

	defaults := window.DefaultSpecs()
	for i := range s.Channels {
		if i >= len(cfg.Windows) {
			s.Channels[i] = types.Channel{Preset: defaults[i].Name}
			continue
		}
		w := cfg.Windows[i]
		if w.Preset != "" && w.Width == nil && w.Level == nil && w.Name == "" {
			s.Channels[i] = types.Channel{Preset: strings.ToLower(w.Preset)}
			continue
		}
		ch := types.Channel{Preset: types.CustomPreset, Name: w.Name}
		if spec, err := w.Spec(); err == nil {
			ch.Name = spec.Name
			ch.Width = strconv.FormatFloat(spec.Width, 'g', -1, 64)
			ch.Level = strconv.FormatFloat(spec.Level, 'g', -1, 64)
		}
		s.Channels[i] = ch
	}
	return s
}

// DefaultState returns the state the wizard starts from without a config file.
func DefaultState() *WizardState {
	return FromConfig(config.Default())
}
