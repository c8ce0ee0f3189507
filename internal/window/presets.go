package window

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named window commonly used when reading CT.
type Preset struct {
	Name   string
	Center float64
	Width  float64
}

// Spec converts the preset into a window specification.
func (p Preset) Spec() Spec {
	return Spec{Name: p.Name, Width: p.Width, Level: p.Center}
}

var presets = map[string]Preset{
	"brain":       {Name: "brain", Center: 40, Width: 80},
	"subdural":    {Name: "subdural", Center: 75, Width: 215},
	"bone":        {Name: "bone", Center: 400, Width: 2000},
	"lung":        {Name: "lung", Center: -600, Width: 1500},
	"mediastinum": {Name: "mediastinum", Center: 40, Width: 400},
	"abdomen":     {Name: "abdomen", Center: 40, Width: 350},
	"liver":       {Name: "liver", Center: 60, Width: 150},
}

// LookupPreset returns the preset with the given name, case-insensitively.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown window preset %q, valid presets: %v", name, PresetNames())
	}
	return p, nil
}

// PresetNames returns the preset names in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSpecs is the brain / subdural / bone channel set.
func DefaultSpecs() [3]Spec {
	return [3]Spec{
		presets["brain"].Spec(),
		presets["subdural"].Spec(),
		presets["bone"].Spec(),
	}
}
