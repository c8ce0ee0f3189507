package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/components"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/types"
	"github.com/mrsinham/dicomwindow/internal/window"
)

// SettingsScreen is the first wizard screen: directories and output options.
type SettingsScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	settings  *types.Settings
	done      bool
	cancelled bool
}

// NewSettingsScreen creates the settings screen bound to settings.
func NewSettingsScreen(settings *types.Settings) *SettingsScreen {
	if settings.Degenerate == "" {
		settings.Degenerate = string(window.DegenerateZero)
	}
	if settings.Quality == "" {
		settings.Quality = "95"
	}
	if settings.Resize == "" {
		settings.Resize = "0"
	}

	s := &SettingsScreen{
		helpPanel: components.NewHelpPanel(),
		settings:  settings,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("input").
				Title("Input Directory").
				Value(&settings.InputDir).
				Validate(validateRequired("input directory")),

			huh.NewInput().
				Key("output").
				Title("Output Directory").
				Value(&settings.OutputDir).
				Validate(validateRequired("output directory")),

			huh.NewConfirm().
				Key("recursive").
				Title("Include subdirectories?").
				Value(&settings.Recursive),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("degenerate").
				Title("Windows without contrast").
				Options(
					huh.NewOption("Black channel", string(window.DegenerateZero)),
					huh.NewOption("Grey channel (127)", string(window.DegenerateMid)),
					huh.NewOption("Fail the file", string(window.DegenerateError)),
				).
				Value(&settings.Degenerate),

			huh.NewInput().
				Key("quality").
				Title("JPEG Quality").
				Value(&settings.Quality).
				Validate(validateIntRange(1, 100)),

			huh.NewInput().
				Key("resize").
				Title("Resize (pixels, 0 = source size)").
				Value(&settings.Resize).
				Validate(validateIntRange(0, 8192)),

			huh.NewConfirm().
				Key("annotate").
				Title("Draw window names on images?").
				Value(&settings.Annotate),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *SettingsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SettingsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SettingsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("DICOMWINDOW WIZARD - Settings"),
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Tab: Next field | Enter: Submit | Esc: Cancel"),
	)
}

// Done returns true if the form was completed
func (s *SettingsScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SettingsScreen) Cancelled() bool {
	return s.cancelled
}
