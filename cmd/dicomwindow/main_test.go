package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrsinham/dicomwindow/internal/config"
	"github.com/mrsinham/dicomwindow/internal/window"
)

func parseConvertFlags(t *testing.T, args ...string) (*convertFlags, *config.Config, error) {
	t.Helper()
	var f convertFlags
	fs := newConvertFlagSet(&f, &bytes.Buffer{})
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cfg, err := buildConfig(&f, fs)
	return &f, cfg, err
}

func TestBuildConfig_FlagsOnly(t *testing.T) {
	_, cfg, err := parseConvertFlags(t, "--input", "in", "--output", "out", "--windows", "lung,mediastinum,600/100", "--quality", "80")
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.InputDir != "in" || cfg.OutputDir != "out" {
		t.Errorf("Expected in/out, got %s/%s", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.JPEGQuality != 80 {
		t.Errorf("Expected quality 80, got %d", cfg.JPEGQuality)
	}

	specs, err := cfg.Specs()
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	if specs[0].Name != "lung" || specs[2].Width != 600 || specs[2].Level != 100 {
		t.Errorf("Unexpected specs: %v", specs)
	}
}

func TestBuildConfig_FlagsOverrideYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `input_dir: ./from-yaml
output_dir: ./jpg-yaml
degenerate: mid
jpeg_quality: 60
windows:
  - preset: bone
  - preset: bone
  - preset: bone
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, cfg, err := parseConvertFlags(t, "--config", path, "--output", "override", "--degenerate", "ERROR")
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.InputDir != "./from-yaml" {
		t.Errorf("Input should come from YAML, got %s", cfg.InputDir)
	}
	if cfg.OutputDir != "override" {
		t.Errorf("Output should come from flag, got %s", cfg.OutputDir)
	}
	if cfg.Degenerate != "error" {
		t.Errorf("Degenerate should come from flag, got %s", cfg.Degenerate)
	}
	if cfg.JPEGQuality != 60 {
		t.Errorf("Quality should come from YAML, got %d", cfg.JPEGQuality)
	}
}

func TestBuildConfig_Invalid(t *testing.T) {
	tests := [][]string{
		{"--input", "in", "--windows", "brain,bone"},
		{"--input", "in", "--windows", "brain,bone,nope"},
		{"--input", "in", "--quality", "101"},
		{"--input", "in", "--degenerate", "clamp"},
		{"--input", "in", "--windows", "brain,bone,0/40"},
		{"--config", "/nonexistent/config.yaml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, _, err := parseConvertFlags(t, args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Degenerate = "mid"
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("optionsFromConfig failed: %v", err)
	}
	if opts.Windows != window.DefaultSpecs() {
		t.Errorf("Expected default specs, got %v", opts.Windows)
	}
	if opts.Degenerate != window.DegenerateMid {
		t.Errorf("Expected mid policy, got %s", opts.Degenerate)
	}
}

func TestRunConvert_RequiresInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := runConvert(nil, &stdout, &stderr); code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "--input or --config is required") {
		t.Errorf("Unexpected stderr: %s", stderr.String())
	}
}

func TestRunSampleThenConvert(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in"), filepath.Join(dir, "out")
	var stdout, stderr bytes.Buffer

	if code := runSample([]string{"--output", in, "--num-images", "2", "--size", "32", "--seed", "7", "--quiet"}, &stdout, &stderr); code != 0 {
		t.Fatalf("runSample exited %d: %s", code, stderr.String())
	}
	saved := filepath.Join(dir, "saved.yaml")
	if code := runConvert([]string{"--input", in, "--output", out, "--quiet", "--save-config", saved}, &stdout, &stderr); code != 0 {
		t.Fatalf("runConvert exited %d: %s", code, stderr.String())
	}

	for _, name := range []string{"IMG0001.dcm.jpg", "IMG0002.dcm.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	cfg, err := config.LoadFromYAML(saved)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	if cfg.InputDir != in {
		t.Errorf("Saved config input = %s, want %s", cfg.InputDir, in)
	}
}
