package help

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"channel0_preset": "channel_preset",
		"channel2_level":  "channel_level",
		"input":           "input",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
		if _, ok := Texts[Normalize(in)]; !ok {
			t.Errorf("No help text for %q", in)
		}
	}
}
