package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/components"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/types"
	"github.com/mrsinham/dicomwindow/internal/window"
)

var channelColours = [3]string{"red", "green", "blue"}

// ChannelsScreen picks the window of each of the three channels.
type ChannelsScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	channels  *[3]types.Channel
	done      bool
	back      bool
	cancelled bool
}

// PresetOptions lists every preset followed by the custom entry.
func PresetOptions() []huh.Option[string] {
	names := window.PresetNames()
	opts := make([]huh.Option[string], 0, len(names)+1)
	for _, name := range names {
		p, _ := window.LookupPreset(name)
		opts = append(opts, huh.NewOption(p.Spec().String(), name))
	}
	return append(opts, huh.NewOption("custom width/level", types.CustomPreset))
}

// NewChannelsScreen creates the channel screen bound to channels.
func NewChannelsScreen(channels *[3]types.Channel) *ChannelsScreen {
	s := &ChannelsScreen{
		helpPanel: components.NewHelpPanel(),
		channels:  channels,
	}

	var groups []*huh.Group
	for i := range channels {
		ch := &channels[i]
		title := fmt.Sprintf("Channel %d (%s)", i, channelColours[i])

		groups = append(groups,
			huh.NewGroup(
				huh.NewSelect[string]().
					Key(fmt.Sprintf("channel%d_preset", i)).
					Title(title).
					Options(PresetOptions()...).
					Value(&ch.Preset),
			),
			huh.NewGroup(
				huh.NewInput().
					Key(fmt.Sprintf("channel%d_name", i)).
					Title(title+" name").
					Value(&ch.Name),
				huh.NewInput().
					Key(fmt.Sprintf("channel%d_width", i)).
					Title(title+" width").
					Value(&ch.Width).
					Validate(validatePositiveFloat),
				huh.NewInput().
					Key(fmt.Sprintf("channel%d_level", i)).
					Title(title+" level").
					Value(&ch.Level).
					Validate(validateFloat),
			).WithHideFunc(func() bool { return ch.Preset != types.CustomPreset }),
		)
	}

	s.form = huh.NewForm(groups...).WithShowHelp(false).WithShowErrors(true)
	return s
}

// Init implements tea.Model
func (s *ChannelsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ChannelsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.back = true
			return s, nil
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
func (s *ChannelsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("DICOMWINDOW WIZARD - Channel Windows"),
		components.SubtitleStyle.Render("Each channel of the JPEG shows the same slice through a different window."),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Enter: Next | Esc: Back | Ctrl+C: Cancel"),
	)
}

// Done returns true if the form was completed
func (s *ChannelsScreen) Done() bool {
	return s.done
}

// Back returns true if the user asked to go back to the settings
func (s *ChannelsScreen) Back() bool {
	return s.back
}

// Cancelled returns true if the user cancelled
func (s *ChannelsScreen) Cancelled() bool {
	return s.cancelled
}
