package screens

import (
	"testing"

	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/types"
)

func TestChannelLabel(t *testing.T) {
	tests := []struct {
		ch   types.Channel
		want string
	}{
		{types.Channel{Preset: "brain"}, "brain (80/40)"},
		{types.Channel{Preset: types.CustomPreset, Width: "600", Level: "-100"}, "600/-100"},
		{types.Channel{Preset: types.CustomPreset, Name: "wide", Width: "600", Level: "-100"}, "wide (600/-100)"},
	}
	for _, tt := range tests {
		if got := ChannelLabel(tt.ch); got != tt.want {
			t.Errorf("ChannelLabel(%+v) = %q, want %q", tt.ch, got, tt.want)
		}
	}
}

func TestCLICommand(t *testing.T) {
	settings := &types.Settings{InputDir: "in", OutputDir: "my jpg", Degenerate: "zero", Quality: "95", Resize: "0"}
	channels := &[3]types.Channel{{Preset: "brain"}, {Preset: "subdural"}, {Preset: "bone"}}

	if got, want := CLICommand(settings, channels), `dicomwindow --input in --output "my jpg"`; got != want {
		t.Errorf("CLICommand = %q, want %q", got, want)
	}

	settings.Recursive = true
	settings.Degenerate = "error"
	settings.Resize = "224"
	channels[2] = types.Channel{Preset: types.CustomPreset, Width: "600", Level: "100"}
	want := `dicomwindow --input in --output "my jpg" --windows brain,subdural,600/100 --recursive --degenerate error --resize 224`
	if got := CLICommand(settings, channels); got != want {
		t.Errorf("CLICommand = %q, want %q", got, want)
	}
}

func TestSummaryScreen_DefaultActionIsConvert(t *testing.T) {
	s := NewSummaryScreen(&types.Settings{}, &[3]types.Channel{}, "")
	if s.Action() != SummaryActionConvert {
		t.Errorf("Expected SummaryActionConvert, got %d", s.Action())
	}
}

func TestValidators(t *testing.T) {
	if validateIntRange(1, 100)("101") == nil {
		t.Error("101 should be out of range")
	}
	if validateIntRange(1, 100)("95") != nil {
		t.Error("95 should be valid")
	}
	if validatePositiveFloat("0") == nil {
		t.Error("0 width should be rejected")
	}
	if validateFloat("-600") != nil {
		t.Error("negative level should be valid")
	}
	if validateRequired("input")(" ") == nil {
		t.Error("blank input should be rejected")
	}
}
