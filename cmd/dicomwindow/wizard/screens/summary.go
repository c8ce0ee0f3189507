package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/components"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/types"
	"github.com/mrsinham/dicomwindow/internal/window"
)

// SummaryAction represents the action selected on the summary screen
type SummaryAction int

const (
	// SummaryActionBack returns to the channel screen
	SummaryActionBack SummaryAction = iota
	// SummaryActionConvert starts the conversion
	SummaryActionConvert
	// SummaryActionSaveConfig saves configuration to YAML file
	SummaryActionSaveConfig
	// SummaryActionCancel exits the wizard
	SummaryActionCancel
)

const (
	actionBack       = "back"
	actionConvert    = "convert"
	actionSaveConfig = "save_config"
	actionCancel     = "cancel"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(1, 2)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true).
				MarginBottom(1)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	cliCommandStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

// SummaryScreen displays the configuration before conversion
type SummaryScreen struct {
	form      *huh.Form
	settings  *types.Settings
	channels  *[3]types.Channel
	notice    string
	action    string
	done      bool
	cancelled bool
}

// NewSummaryScreen creates a new summary screen. notice, if set, is shown
// above the actions (e.g. after saving a config file).
func NewSummaryScreen(settings *types.Settings, channels *[3]types.Channel, notice string) *SummaryScreen {
	s := &SummaryScreen{
		settings: settings,
		channels: channels,
		notice:   notice,
		action:   actionConvert,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(
					huh.NewOption("Convert now", actionConvert),
					huh.NewOption("Save configuration to YAML", actionSaveConfig),
					huh.NewOption("Back to edit", actionBack),
					huh.NewOption("Cancel and exit", actionCancel),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.action = actionBack
			s.done = true
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		summaryPanelStyle.Width(45).Render(s.buildSettingsSummary()),
		"  ",
		summaryPanelStyle.Width(45).Render(s.buildChannelSummary()),
	)

	parts := []string{
		components.TitleStyle.Render("SUMMARY - Review Configuration"),
		"",
		panels,
		"",
		summaryTitleStyle.Render("Equivalent CLI Command"),
		cliCommandStyle.Render(CLICommand(s.settings, s.channels)),
		"",
	}
	if s.notice != "" {
		parts = append(parts, summaryValueStyle.Render(s.notice), "")
	}
	parts = append(parts, s.form.View(), "", components.HintStyle.Render("Enter: Select action | Esc: Back"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *SummaryScreen) buildSettingsSummary() string {
	var sb strings.Builder
	sb.WriteString(summaryTitleStyle.Render("Settings"))
	sb.WriteString("\n\n")

	params := []struct {
		label string
		value string
	}{
		{"Input", s.settings.InputDir},
		{"Output", s.settings.OutputDir},
		{"Recursive", yesNo(s.settings.Recursive)},
		{"No contrast", s.settings.Degenerate},
		{"JPEG quality", s.settings.Quality},
		{"Resize", s.settings.Resize},
		{"Annotate", yesNo(s.settings.Annotate)},
	}
	for _, p := range params {
		sb.WriteString(summaryLabelStyle.Render(p.label + ": "))
		sb.WriteString(summaryValueStyle.Render(p.value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *SummaryScreen) buildChannelSummary() string {
	var sb strings.Builder
	sb.WriteString(summaryTitleStyle.Render("Channels"))
	sb.WriteString("\n\n")
	for i, ch := range s.channels {
		sb.WriteString(components.ChannelStyles[i].Render(fmt.Sprintf("%-6s", channelColours[i])))
		sb.WriteString(" ")
		sb.WriteString(summaryValueStyle.Render(ChannelLabel(ch)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ChannelLabel describes a channel the way the converter prints it.
func ChannelLabel(ch types.Channel) string {
	if ch.Preset != types.CustomPreset {
		if p, err := window.LookupPreset(ch.Preset); err == nil {
			return p.Spec().String()
		}
		return ch.Preset
	}
	if ch.Name == "" {
		return fmt.Sprintf("%s/%s", ch.Width, ch.Level)
	}
	return fmt.Sprintf("%s (%s/%s)", ch.Name, ch.Width, ch.Level)
}

// CLICommand returns the dicomwindow invocation equivalent to the wizard state.
func CLICommand(settings *types.Settings, channels *[3]types.Channel) string {
	parts := []string{"dicomwindow", "--input " + quoteArg(settings.InputDir), "--output " + quoteArg(settings.OutputDir)}

	windows := make([]string, 0, len(channels))
	isDefault := true
	for i, ch := range channels {
		w := ch.Preset
		if ch.Preset == types.CustomPreset {
			w = ch.Width + "/" + ch.Level
		}
		if w != window.DefaultSpecs()[i].Name {
			isDefault = false
		}
		windows = append(windows, w)
	}
	if !isDefault {
		parts = append(parts, "--windows "+strings.Join(windows, ","))
	}

	if settings.Recursive {
		parts = append(parts, "--recursive")
	}
	if settings.Degenerate != "" && settings.Degenerate != string(window.DegenerateZero) {
		parts = append(parts, "--degenerate "+settings.Degenerate)
	}
	if settings.Quality != "" && settings.Quality != "95" {
		parts = append(parts, "--quality "+settings.Quality)
	}
	if settings.Resize != "" && settings.Resize != "0" {
		parts = append(parts, "--resize "+settings.Resize)
	}
	if settings.Annotate {
		parts = append(parts, "--annotate")
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Done returns true if the form was completed
func (s *SummaryScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SummaryScreen) Cancelled() bool {
	return s.cancelled
}

// Action returns the selected action
func (s *SummaryScreen) Action() SummaryAction {
	switch s.action {
	case actionBack:
		return SummaryActionBack
	case actionSaveConfig:
		return SummaryActionSaveConfig
	case actionCancel:
		return SummaryActionCancel
	default:
		return SummaryActionConvert
	}
}
