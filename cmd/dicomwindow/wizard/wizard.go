package wizard

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/components"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/screens"
	"github.com/mrsinham/dicomwindow/internal/config"
	"github.com/mrsinham/dicomwindow/internal/convert"
	"github.com/mrsinham/dicomwindow/internal/window"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseSettings Phase = iota
	PhaseChannels
	PhaseSummary
	PhaseSaveConfig
	PhaseProgress
	PhaseComplete
	PhaseError
)

// Wizard is the main orchestrator for the wizard interface.
type Wizard struct {
	state *WizardState
	phase Phase

	settingsScreen   *screens.SettingsScreen
	channelsScreen   *screens.ChannelsScreen
	summaryScreen    *screens.SummaryScreen
	progressScreen   *screens.ProgressScreen
	completionScreen *screens.CompletionScreen
	errorScreen      *screens.ErrorScreen

	saveConfigForm *huh.Form
	configPath     string

	// updates carries progress and completion messages of a running conversion
	updates chan tea.Msg
	// stop is closed when the program no longer reads updates
	stop chan struct{}
	// finished is closed when the conversion goroutine returns
	finished chan struct{}

	cancelled bool
	err       error
}

// NewWizard creates a new wizard with default or loaded state.
func NewWizard(state *WizardState) *Wizard {
	if state == nil {
		state = DefaultState()
	}

	w := &Wizard{
		state:      state,
		phase:      PhaseSettings,
		configPath: "dicomwindow.yaml",
	}
	w.settingsScreen = screens.NewSettingsScreen(&w.state.Settings)
	return w
}

// Phase returns the current phase.
func (w *Wizard) Phase() Phase {
	return w.phase
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.settingsScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch w.phase {
	case PhaseSettings:
		return w.updateSettings(msg)
	case PhaseChannels:
		return w.updateChannels(msg)
	case PhaseSummary:
		return w.updateSummary(msg)
	case PhaseSaveConfig:
		return w.updateSaveConfig(msg)
	case PhaseProgress:
		return w.updateProgress(msg)
	case PhaseComplete:
		return w.updateComplete(msg)
	case PhaseError:
		return w.updateError(msg)
	}
	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseSettings:
		return w.settingsScreen.View()
	case PhaseChannels:
		return w.channelsScreen.View()
	case PhaseSummary:
		return w.summaryScreen.View()
	case PhaseSaveConfig:
		return w.viewSaveConfig()
	case PhaseProgress:
		return w.progressScreen.View()
	case PhaseComplete:
		return w.completionScreen.View()
	case PhaseError:
		return w.errorScreen.View()
	}
	return ""
}

func (w *Wizard) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.settingsScreen.Update(msg)
	if s, ok := model.(*screens.SettingsScreen); ok {
		w.settingsScreen = s
	}

	if w.settingsScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}
	if w.settingsScreen.Done() {
		return w.transitionToChannels()
	}
	return w, cmd
}

func (w *Wizard) transitionToChannels() (tea.Model, tea.Cmd) {
	w.phase = PhaseChannels
	w.channelsScreen = screens.NewChannelsScreen(&w.state.Channels)
	return w, w.channelsScreen.Init()
}

func (w *Wizard) updateChannels(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.channelsScreen.Update(msg)
	if s, ok := model.(*screens.ChannelsScreen); ok {
		w.channelsScreen = s
	}

	switch {
	case w.channelsScreen.Cancelled():
		w.cancelled = true
		return w, tea.Quit
	case w.channelsScreen.Back():
		w.phase = PhaseSettings
		w.settingsScreen = screens.NewSettingsScreen(&w.state.Settings)
		return w, w.settingsScreen.Init()
	case w.channelsScreen.Done():
		return w.transitionToSummary("")
	}
	return w, cmd
}

func (w *Wizard) transitionToSummary(notice string) (tea.Model, tea.Cmd) {
	w.phase = PhaseSummary
	w.summaryScreen = screens.NewSummaryScreen(&w.state.Settings, &w.state.Channels, notice)
	return w, w.summaryScreen.Init()
}

func (w *Wizard) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.summaryScreen.Update(msg)
	if s, ok := model.(*screens.SummaryScreen); ok {
		w.summaryScreen = s
	}

	if w.summaryScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.summaryScreen.Done() {
		switch w.summaryScreen.Action() {
		case screens.SummaryActionBack:
			return w.transitionToChannels()
		case screens.SummaryActionConvert:
			return w.startConversion()
		case screens.SummaryActionSaveConfig:
			return w.transitionToSaveConfig()
		case screens.SummaryActionCancel:
			w.cancelled = true
			return w, tea.Quit
		}
	}
	return w, cmd
}

func (w *Wizard) transitionToSaveConfig() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveConfig
	w.saveConfigForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("config_path").
				Title("Save configuration to").
				Description("Enter the path for the YAML config file").
				Value(&w.configPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveConfigForm.Init()
}

func (w *Wizard) updateSaveConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return w.transitionToSummary("")
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveConfigForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveConfigForm = f
	}

	if w.saveConfigForm.State == huh.StateCompleted {
		if err := w.saveConfig(w.configPath); err != nil {
			return w.transitionToError(err)
		}
		return w.transitionToSummary(fmt.Sprintf("✓ Configuration saved to %s", w.configPath))
	}
	return w, cmd
}

func (w *Wizard) saveConfig(path string) error {
	cfg, err := ToConfig(w.state)
	if err != nil {
		return err
	}
	return config.SaveToYAML(cfg, path)
}

func (w *Wizard) viewSaveConfig() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("Save Configuration"),
		"",
		w.saveConfigForm.View(),
		"",
		components.HintStyle.Render("Enter: Save | Esc: Back"),
	)
}

// conversionOptions builds converter options from the wizard state.
func (w *Wizard) conversionOptions() (convert.Options, error) {
	cfg, err := ToConfig(w.state)
	if err != nil {
		return convert.Options{}, err
	}
	specs, err := cfg.Specs()
	if err != nil {
		return convert.Options{}, err
	}
	policy, err := window.ParseDegeneratePolicy(cfg.Degenerate)
	if err != nil {
		return convert.Options{}, err
	}
	return convert.Options{
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Windows:    specs,
		Recursive:  cfg.Recursive,
		Degenerate: policy,
		Quality:    cfg.JPEGQuality,
		Resize:     cfg.Resize,
		Annotate:   cfg.Annotate,
		Quiet:      true, // the TUI owns the terminal
	}, nil
}

// startConversion runs the converter in the background and streams its
// progress back into the program through w.updates.
func (w *Wizard) startConversion() (tea.Model, tea.Cmd) {
	opts, err := w.conversionOptions()
	if err != nil {
		return w.transitionToError(err)
	}

	w.phase = PhaseProgress
	w.progressScreen = screens.NewProgressScreen()
	w.updates = make(chan tea.Msg, 1)
	w.stop = make(chan struct{})
	w.finished = make(chan struct{})

	updates, stop, finished := w.updates, w.stop, w.finished
	send := func(msg tea.Msg) {
		select {
		case updates <- msg:
		case <-stop:
		}
	}
	opts.ProgressCallback = func(current, total int) {
		send(screens.ProgressMsg{Current: current, Total: total})
	}

	go func() {
		defer close(finished)
		start := time.Now()
		report, err := convert.Run(opts)
		if err != nil {
			send(screens.ErrorMsg{Error: err})
			return
		}
		send(completionMsg(report, opts.OutputDir, time.Since(start)))
	}()

	return w, waitForUpdate(updates)
}

// stopConversion releases a running conversion goroutine from pending sends.
func (w *Wizard) stopConversion() {
	if w.stop != nil {
		close(w.stop)
		w.stop = nil
	}
}

func completionMsg(report *convert.Report, outputDir string, d time.Duration) screens.CompletionMsg {
	msg := screens.CompletionMsg{
		Converted: report.Converted(),
		Duration:  d,
		OutputDir: outputDir,
	}
	for _, res := range report.Failed() {
		msg.Failures = append(msg.Failures, fmt.Sprintf("%s: %v", filepath.Base(res.Source), res.Err))
	}
	return msg
}

func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (w *Wizard) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ProgressMsg:
		w.progressScreen.SetProgress(msg.Current, msg.Total)
		return w, waitForUpdate(w.updates)

	case screens.CompletionMsg:
		w.phase = PhaseComplete
		w.completionScreen = screens.NewCompletionScreen(msg)
		if n := len(msg.Failures); n > 0 {
			w.err = fmt.Errorf("%d files failed to convert", n)
		}
		return w, nil

	case screens.ErrorMsg:
		return w.transitionToError(msg.Error)
	}

	model, cmd := w.progressScreen.Update(msg)
	if ps, ok := model.(*screens.ProgressScreen); ok {
		w.progressScreen = ps
	}
	if w.progressScreen.Cancelled() {
		w.cancelled = true
		w.stopConversion()
		return w, tea.Quit
	}
	return w, cmd
}

func (w *Wizard) transitionToError(err error) (tea.Model, tea.Cmd) {
	w.phase = PhaseError
	w.err = err
	w.errorScreen = screens.NewErrorScreen(err)
	return w, nil
}

func (w *Wizard) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.completionScreen.Update(msg)
	if cs, ok := model.(*screens.CompletionScreen); ok {
		w.completionScreen = cs
	}
	if w.completionScreen.Done() {
		return w, tea.Quit
	}
	return w, cmd
}

func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = es
	}
	if w.errorScreen.Done() {
		return w, tea.Quit
	}
	return w, cmd
}

// Run starts the interactive wizard. If fromConfig is provided, the wizard
// is pre-filled from that YAML file.
func Run(fromConfig string) error {
	var state *WizardState

	if fromConfig != "" {
		absPath, err := filepath.Abs(fromConfig)
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		cfg, err := config.LoadFromYAML(absPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		state = FromConfig(cfg)
	}

	wizard := NewWizard(state)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	finalModel, err := p.Run()
	wizard.stopConversion()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	if w, ok := finalModel.(*Wizard); ok {
		if w.cancelled {
			return nil // User cancelled, not an error
		}
		return w.err
	}
	return nil
}
