package components

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// ChannelStyles colour channel names like the channel they end up in.
var ChannelStyles = [3]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
}
