package help

import "regexp"

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

var channelField = regexp.MustCompile(`^channel\d+_`)

// Normalize maps per-channel field keys to their shared help key.
func Normalize(field string) string {
	return channelField.ReplaceAllString(field, "channel_")
}

// Texts contains help information for all wizard fields
var Texts = map[string]HelpText{
	"input": {
		Title:       "INPUT DIRECTORY",
		Description: "Directory containing the DICOM files to convert.",
		Details:     "Every regular file is tried. DICOMDIR and hidden files are skipped.",
	},
	"output": {
		Title:       "OUTPUT DIRECTORY",
		Description: "Directory where JPEG files will be written.",
		Details:     "Created if it doesn't exist. Each file is named <original-filename>.jpg.",
	},
	"recursive": {
		Title:       "RECURSIVE",
		Description: "Also convert files in subdirectories.",
		Details:     "The directory layout is mirrored in the output directory, e.g. PT000000/ST000000/SE000000/IM000001.jpg.",
	},
	"degenerate": {
		Title:       "WINDOWS WITHOUT CONTRAST",
		Description: "What to write when every pixel falls on the same side of a window.",
		Details: `zero  - black channel (default)
mid   - grey channel (127)
error - report the file as failed`,
	},
	"quality": {
		Title:       "JPEG QUALITY",
		Description: "Encoder quality from 1 (smallest) to 100 (best).",
		Details:     "95 keeps window edges sharp enough for most uses.",
	},
	"resize": {
		Title:       "RESIZE",
		Description: "Scale every image to N x N pixels.",
		Details:     "0 keeps the source dimensions. Scaling uses Catmull-Rom interpolation.",
	},
	"annotate": {
		Title:       "ANNOTATE",
		Description: "Draw the three window names in the top-left corner.",
		Details:     "Each name is drawn in the colour of its channel.",
	},
	"channel_preset": {
		Title:       "WINDOW",
		Description: "Window applied to this channel, as width/level in Hounsfield units.",
		Details: `brain 80/40, subdural 215/75, bone 2000/400,
lung 1500/-600, mediastinum 400/40, abdomen 350/40,
liver 150/60, or custom`,
	},
	"channel_name": {
		Title:       "WINDOW NAME",
		Description: "Optional label for a custom window.",
		Details:     "Shown in the channel list and in annotations.",
	},
	"channel_width": {
		Title:       "WINDOW WIDTH",
		Description: "Size of the visible range. Must be greater than 0.",
		Details:     "Values below level - width/2 are black, values above level + width/2 are white.",
	},
	"channel_level": {
		Title:       "WINDOW LEVEL",
		Description: "Centre of the visible range.",
		Details:     "Negative values are allowed, e.g. -600 for lung.",
	},
	"config_path": {
		Title:       "CONFIG FILE",
		Description: "YAML file to write the configuration to.",
		Details:     "Run it later with: dicomwindow --config <FILE>",
	},
}
