package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	account    lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	windowKey  lipgloss.Style
	windowMeta lipgloss.Style
	barBracket lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		windowKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		windowMeta: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// usageStyle colours a percentage by the notification band it sits in.
func usageStyle(used float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(usageColor(used))
}

// usageColor goes from green through yellow to red as usage rises.
func usageColor(used float64) lipgloss.Color {
	switch {
	case used >= 90:
		return lipgloss.Color("203")
	case used >= 75:
		return lipgloss.Color("214")
	case used >= 50:
		return lipgloss.Color("221")
	default:
		return lipgloss.Color("114")
	}
}
