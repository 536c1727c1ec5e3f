package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the chat view.
type Styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Meta      lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	InputBox  lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575")).
			MarginBottom(1),
		User: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		Assistant: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Meta: lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color("#626262")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")),
		Help: lipgloss.NewStyle().
			Faint(true),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1),
	}
}
