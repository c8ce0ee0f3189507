// Package types holds the wizard state shared by the wizard and its screens.
package types

// CustomPreset marks a channel whose width and level are typed in.
const CustomPreset = "custom"

// Settings holds the directory and output settings of a conversion.
// Numeric values are kept as strings because huh binds inputs to strings.
type Settings struct {
	InputDir   string
	OutputDir  string
	Recursive  bool
	Degenerate string
	Quality    string
	Resize     string
	Annotate   bool
}

// Channel holds the window of one output channel: a preset name, or
// CustomPreset with Width and Level.
type Channel struct {
	Preset string
	Name   string
	Width  string
	Level  string
}
