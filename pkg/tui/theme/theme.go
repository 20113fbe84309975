package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Page   PageTheme
	Status StatusTheme
	Notes  NotesTheme
}

// PageTheme styles the rendered document text.
type PageTheme struct {
	Text       lipgloss.Style
	Heading    lipgloss.Style
	Emphasis   lipgloss.Style
	Strong     lipgloss.Style
	Code       lipgloss.Style
	Link       lipgloss.Style
	Blockquote lipgloss.Style
	Embed      lipgloss.Style
}

// StatusTheme groups styles used by the bottom status bar.
type StatusTheme struct {
	Bar   lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
	Alert lipgloss.Style
}

// NotesTheme styles the floating notes panel anchored to a selected
// highlight.
type NotesTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Note  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Page: PageTheme{
			Text:       lipgloss.NewStyle(),
			Heading:    lipgloss.NewStyle().Bold(true),
			Emphasis:   lipgloss.NewStyle().Italic(true),
			Strong:     lipgloss.NewStyle().Bold(true),
			Code:       lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
			Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true),
			Blockquote: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
			Embed:      lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		},
		Status: StatusTheme{
			Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")),
			Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Background(lipgloss.Color("236")).Bold(true),
			Value: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236")),
			Alert: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")).Bold(true),
		},
		Notes: NotesTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Note:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		},
	}
}
