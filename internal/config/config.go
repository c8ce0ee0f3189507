// Package config loads, validates and saves the converter configuration.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mrsinham/dicomwindow/internal/window"
	"gopkg.in/yaml.v3"
)

// DefaultJPEGQuality is used when jpeg_quality is unset.
const DefaultJPEGQuality = 95

// Config represents the complete converter configuration for YAML serialization.
type Config struct {
	InputDir    string       `yaml:"input_dir"`
	OutputDir   string       `yaml:"output_dir"`
	Recursive   bool         `yaml:"recursive,omitempty"`
	Degenerate  string       `yaml:"degenerate,omitempty"`
	JPEGQuality int          `yaml:"jpeg_quality,omitempty"`
	Resize      int          `yaml:"resize,omitempty"`
	Annotate    bool         `yaml:"annotate,omitempty"`
	Windows     []WindowYAML `yaml:"windows"`
}

// WindowYAML is one channel window, given either as a preset name or as
// explicit width and level. Explicit values override the preset's.
type WindowYAML struct {
	Preset string   `yaml:"preset,omitempty"`
	Name   string   `yaml:"name,omitempty"`
	Width  *float64 `yaml:"width,omitempty"`
	Level  *float64 `yaml:"level,omitempty"`
}

// Default returns the brain / subdural / bone configuration.
func Default() *Config {
	return &Config{
		InputDir:    "dicom",
		OutputDir:   "jpg",
		Degenerate:  string(window.DegenerateZero),
		JPEGQuality: DefaultJPEGQuality,
		Windows: []WindowYAML{
			{Preset: "brain"},
			{Preset: "subdural"},
			{Preset: "bone"},
		},
	}
}

// LoadFromYAML reads a configuration file. Unset fields keep their defaults.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	cfg.Windows = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Windows == nil {
		cfg.Windows = Default().Windows
	}
	return cfg, nil
}

// SaveToYAML writes cfg to path.
func SaveToYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Specs resolves the three channel windows.
func (c *Config) Specs() ([3]window.Spec, error) {
	var specs [3]window.Spec
	if len(c.Windows) != 3 {
		return specs, fmt.Errorf("exactly 3 windows are required, got %d", len(c.Windows))
	}
	for i, w := range c.Windows {
		s, err := w.Spec()
		if err != nil {
			return specs, fmt.Errorf("window %d: %w", i, err)
		}
		specs[i] = s
	}
	return specs, nil
}

// Spec resolves a single window entry.
func (w WindowYAML) Spec() (window.Spec, error) {
	var s window.Spec
	if w.Preset != "" {
		p, err := window.LookupPreset(w.Preset)
		if err != nil {
			return s, err
		}
		s = p.Spec()
	} else if w.Width == nil || w.Level == nil {
		return s, fmt.Errorf("either preset or both width and level are required")
	}
	if w.Width != nil {
		s.Width = *w.Width
	}
	if w.Level != nil {
		s.Level = *w.Level
	}
	if w.Name != "" {
		s.Name = w.Name
	}
	if !finite(s.Width) || !finite(s.Level) {
		return s, fmt.Errorf("width and level must be finite, got %g/%g", s.Width, s.Level)
	}
	if s.Width <= 0 {
		return s, fmt.Errorf("width must be > 0, got %g", s.Width)
	}
	return s, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if _, err := window.ParseDegeneratePolicy(c.Degenerate); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100, got %d", c.JPEGQuality)
	}
	if c.Resize < 0 {
		return fmt.Errorf("resize must be >= 0, got %d", c.Resize)
	}
	if _, err := c.Specs(); err != nil {
		return err
	}
	return nil
}

// ParseWindow parses a preset name or "width/level", e.g. "bone" or "80/40".
func ParseWindow(s string) (WindowYAML, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WindowYAML{}, fmt.Errorf("empty window")
	}
	width, level, found := strings.Cut(s, "/")
	if !found {
		if _, err := window.LookupPreset(s); err != nil {
			return WindowYAML{}, err
		}
		return WindowYAML{Preset: strings.ToLower(s)}, nil
	}

	w, err := strconv.ParseFloat(strings.TrimSpace(width), 64)
	if err != nil || !finite(w) {
		return WindowYAML{}, fmt.Errorf("invalid window width %q", width)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(level), 64)
	if err != nil || !finite(l) {
		return WindowYAML{}, fmt.Errorf("invalid window level %q", level)
	}
	return WindowYAML{Width: &w, Level: &l}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseWindows parses a comma-separated list of exactly three windows.
func ParseWindows(s string) ([]WindowYAML, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("exactly 3 comma-separated windows are required, got %d", len(parts))
	}
	result := make([]WindowYAML, 0, 3)
	for _, p := range parts {
		w, err := ParseWindow(p)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, nil
}
