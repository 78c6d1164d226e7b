package list

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	empty       lipgloss.Style
	id          lipgloss.Style
	activeMark  lipgloss.Style
	doneMark    lipgloss.Style
	activeTitle lipgloss.Style
	doneTitle   lipgloss.Style
	description lipgloss.Style
	footer      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true),
		header:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		empty:       lipgloss.NewStyle().Faint(true),
		id:          lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		activeMark:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		doneMark:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		activeTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		doneTitle:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
		description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
	}
}
