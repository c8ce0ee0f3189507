package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard/components"
)

// ProgressMsg is sent after each converted file
type ProgressMsg struct {
	Current int
	Total   int
}

// CompletionMsg is sent when the conversion run has finished
type CompletionMsg struct {
	Converted int
	Failures  []string // "file: error" for every file that failed
	Duration  time.Duration
	OutputDir string
}

// ErrorMsg is sent when the run could not start or was aborted
type ErrorMsg struct {
	Error error
}

var (
	progressBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63"))

	progressBarEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	progressPercentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true)

	progressFileStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)

// ProgressScreen displays conversion progress
type ProgressScreen struct {
	current   int
	total     int
	startTime time.Time
	cancelled bool
	width     int
}

// NewProgressScreen creates a new progress screen
func NewProgressScreen() *ProgressScreen {
	return &ProgressScreen{startTime: time.Now()}
}

// Init implements tea.Model
func (s *ProgressScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ProgressScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case ProgressMsg:
		s.SetProgress(msg.Current, msg.Total)
	}
	return s, nil
}

// View implements tea.Model
func (s *ProgressScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	var percent float64
	if s.total > 0 {
		percent = float64(s.current) / float64(s.total) * 100
	}

	barWidth := 40
	if s.width > 80 {
		barWidth = 60
	}

	var sb strings.Builder
	sb.WriteString(components.TitleStyle.Render("Converting DICOM files..."))
	sb.WriteString("\n\n")
	sb.WriteString(renderProgressBar(percent, barWidth))
	sb.WriteString(" ")
	sb.WriteString(progressPercentStyle.Render(fmt.Sprintf("%d%%", int(percent))))
	sb.WriteString("\n\n")
	sb.WriteString(progressFileStyle.Render(fmt.Sprintf("File %d/%d", s.current, s.total)))
	sb.WriteString("\n")
	sb.WriteString(progressFileStyle.Render(fmt.Sprintf("Elapsed: %.1fs", time.Since(s.startTime).Seconds())))
	sb.WriteString("\n\n")
	sb.WriteString(components.HintStyle.Render("Press Ctrl+C to cancel"))
	return sb.String()
}

func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := progressBarStyle.Render("[" + strings.Repeat("█", filled))
	bar += progressBarEmptyStyle.Render(strings.Repeat("░", width-filled) + "]")
	return bar
}

// Cancelled returns true if the user cancelled
func (s *ProgressScreen) Cancelled() bool {
	return s.cancelled
}

// SetProgress updates the progress
func (s *ProgressScreen) SetProgress(current, total int) {
	s.current = current
	s.total = total
}

// Completion screen styles
var (
	completionSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	completionWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	completionLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	completionValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	completionCommandStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("252")).
				Padding(0, 1)
)

// maxListedFailures bounds the failure list on the completion screen.
const maxListedFailures = 5

// CompletionScreen displays the result of the run
type CompletionScreen struct {
	msg  CompletionMsg
	done bool
}

// NewCompletionScreen creates a new completion screen
func NewCompletionScreen(msg CompletionMsg) *CompletionScreen {
	return &CompletionScreen{msg: msg}
}

// Init implements tea.Model
func (s *CompletionScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *CompletionScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *CompletionScreen) View() string {
	var sb strings.Builder

	if len(s.msg.Failures) == 0 {
		sb.WriteString(completionSuccessStyle.Render("✓ Conversion complete!"))
	} else {
		sb.WriteString(completionWarnStyle.Render(fmt.Sprintf("✗ Conversion finished with %d failures", len(s.msg.Failures))))
	}
	sb.WriteString("\n\n")

	sb.WriteString(components.TitleStyle.Render("Summary:"))
	sb.WriteString("\n")
	stats := []struct {
		label string
		value string
	}{
		{"Files converted", fmt.Sprintf("%d", s.msg.Converted)},
		{"Files failed", fmt.Sprintf("%d", len(s.msg.Failures))},
		{"Duration", fmt.Sprintf("%.1fs", s.msg.Duration.Seconds())},
		{"Output", s.msg.OutputDir},
	}
	for _, stat := range stats {
		sb.WriteString("  ")
		sb.WriteString(completionLabelStyle.Render(stat.label + ":"))
		sb.WriteString(" ")
		sb.WriteString(completionValueStyle.Render(stat.value))
		sb.WriteString("\n")
	}

	if len(s.msg.Failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(components.TitleStyle.Render("Failures:"))
		sb.WriteString("\n")
		for i, f := range s.msg.Failures {
			if i == maxListedFailures {
				sb.WriteString(completionLabelStyle.Render(fmt.Sprintf("  ... and %d more", len(s.msg.Failures)-maxListedFailures)))
				sb.WriteString("\n")
				break
			}
			sb.WriteString("  • ")
			sb.WriteString(completionLabelStyle.Render(f))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n  • View files: ")
	sb.WriteString(completionCommandStyle.Render(fmt.Sprintf("ls -la %s", s.msg.OutputDir)))
	sb.WriteString("\n\n")
	sb.WriteString(components.HintStyle.Render("Press Enter or q to exit"))
	return sb.String()
}

// Done returns true if the user is finished
func (s *CompletionScreen) Done() bool {
	return s.done
}

// ErrorScreen displays an error that stopped the run
type ErrorScreen struct {
	err  error
	done bool
}

var (
	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

// NewErrorScreen creates a new error screen
func NewErrorScreen(err error) *ErrorScreen {
	return &ErrorScreen{err: err}
}

// Init implements tea.Model
func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *ErrorScreen) View() string {
	var sb strings.Builder
	sb.WriteString(errorTitleStyle.Render("✗ Conversion failed"))
	sb.WriteString("\n\n")
	sb.WriteString(components.TitleStyle.Render("Error:"))
	sb.WriteString("\n  ")
	sb.WriteString(errorMessageStyle.Render(s.err.Error()))
	sb.WriteString("\n\n")
	sb.WriteString(components.HintStyle.Render("Press Enter or q to exit"))
	return sb.String()
}

// Done returns true if the user is finished
func (s *ErrorScreen) Done() bool {
	return s.done
}

// Error returns the error
func (s *ErrorScreen) Error() error {
	return s.err
}
