package dicom

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// EdgeCase is a deliberate irregularity injected into a sample file.
type EdgeCase string

const (
	NoEdgeCase       EdgeCase = ""
	MissingRescale   EdgeCase = "missing-rescale"   // RescaleSlope/Intercept omitted
	MalformedRescale EdgeCase = "malformed-rescale" // non-numeric rescale values
	FlatPixels       EdgeCase = "flat"              // constant pixel value, no overlay
	TruncatedPixels  EdgeCase = "truncated"         // file cut off inside PixelData
)

// AllEdgeCases returns all valid edge case types.
func AllEdgeCases() []EdgeCase {
	return []EdgeCase{MissingRescale, MalformedRescale, FlatPixels, TruncatedPixels}
}

// ParseEdgeCases parses a comma-separated edge case list. "all" selects
// every type.
func ParseEdgeCases(input string) ([]EdgeCase, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	if strings.EqualFold(input, "all") {
		return AllEdgeCases(), nil
	}
	valid := make(map[EdgeCase]bool)
	for _, e := range AllEdgeCases() {
		valid[e] = true
	}
	parts := strings.Split(input, ",")
	result := make([]EdgeCase, 0, len(parts))
	for _, p := range parts {
		e := EdgeCase(strings.TrimSpace(p))
		if !valid[e] {
			return nil, fmt.Errorf("unknown edge case %q, valid types: %v", p, AllEdgeCases())
		}
		result = append(result, e)
	}
	return result, nil
}

// EdgeCaseConfig selects which edge cases to inject and how often.
type EdgeCaseConfig struct {
	Percentage int // 0-100, share of files that receive an edge case
	Types      []EdgeCase
}

// IsEnabled returns true if any edge case can be injected.
func (c EdgeCaseConfig) IsEnabled() bool {
	return c.Percentage > 0 && len(c.Types) > 0
}

// Validate checks if config is valid.
func (c EdgeCaseConfig) Validate() error {
	if c.Percentage < 0 || c.Percentage > 100 {
		return fmt.Errorf("edge-cases percentage must be 0-100, got %d", c.Percentage)
	}
	if c.Percentage > 0 && len(c.Types) == 0 {
		return fmt.Errorf("edge-cases enabled but no types specified")
	}
	return nil
}

// pick rolls for one file and returns the edge case to apply, if any.
func (c EdgeCaseConfig) pick(rng *rand.Rand) EdgeCase {
	if !c.IsEnabled() || rng.IntN(100) >= c.Percentage {
		return NoEdgeCase
	}
	return c.Types[rng.IntN(len(c.Types))]
}
