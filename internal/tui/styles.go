package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorPrimary     = lipgloss.Color("#8BC34A")
	colorBorder      = lipgloss.Color("#2a3850")
	colorMuted       = lipgloss.Color("#6b7a90")
	colorDestructive = lipgloss.Color("#e53935")
)

// Styles holds the lipgloss styles used by the browser.
type Styles struct {
	Header  lipgloss.Style
	Content lipgloss.Style
	Filter  lipgloss.Style
	Prompt  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the browser styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(colorPrimary).
			Foreground(lipgloss.Color("#101F38")).
			Padding(0, 2).
			Bold(true),
		Content: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder),
		Filter: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
		Success: lipgloss.NewStyle().
			Foreground(colorPrimary),
		Error: lipgloss.NewStyle().
			Foreground(colorDestructive).
			Bold(true),
	}
}
