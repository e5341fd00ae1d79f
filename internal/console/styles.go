package console

import "github.com/charmbracelet/lipgloss"

var (
	styleUser      = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	styleInfo      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleSuccess   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleTool      = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleReasoning = lipgloss.NewStyle().Faint(true).Italic(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePlanTitle = lipgloss.NewStyle().Bold(true).Underline(true)
	styleApproval  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("3")).Padding(0, 1)
)
