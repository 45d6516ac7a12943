// Package theme holds the terminal styles used by the interactive chat.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a color palette for the chat REPL.
type Theme struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Emergency lipgloss.Color
	Error     lipgloss.Color
}

// Default is the dark palette.
var Default = Theme{
	Primary:   lipgloss.Color("#10B981"),
	Text:      lipgloss.Color("#F9FAFB"),
	TextMuted: lipgloss.Color("#6B7280"),
	Emergency: lipgloss.Color("#EF4444"),
	Error:     lipgloss.Color("#F59E0B"),
}

// Styles renders the parts of a chat transcript.
type Styles struct {
	Banner    lipgloss.Style
	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style
	Reply     lipgloss.Style
	Emergency lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles builds Styles from a palette.
func NewStyles(t Theme) Styles {
	return Styles{
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text),
		BotLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Reply: lipgloss.NewStyle().
			Foreground(t.Text),
		Emergency: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Emergency).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Emergency).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(t.Error),
		Muted: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Italic(true),
	}
}

// Plain returns styles that render text unchanged, for non-terminal output.
func Plain() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Banner:    s,
		UserLabel: s,
		BotLabel:  s,
		Reply:     s,
		Emergency: s,
		Error:     s,
		Muted:     s,
	}
}
