// Package wizard provides an interactive TUI for building a conversion configuration.
package wizard

import "github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/types"

// WizardState holds the complete state for the wizard interface.
type WizardState struct {
	Settings types.Settings
	Channels [3]types.Channel
}
