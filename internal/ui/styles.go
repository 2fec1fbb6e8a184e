package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

	doneStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	busyStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("11"))

	toastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	inputStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)

	footerStyle = lipgloss.NewStyle().Faint(true)
)
