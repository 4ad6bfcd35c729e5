// Package styles holds the colour palette and lipgloss styles for the
// chat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Primary    lipgloss.Color // main accent
	Secondary  lipgloss.Color // second accent
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color // de-emphasised text
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme is the StudyBridge dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#3B82F6"), // StudyBridge blue
		Secondary:  lipgloss.Color("#2DD4BF"), // teal
		Background: lipgloss.Color("#111827"),
		Foreground: lipgloss.Color("#E5E7EB"),
		Muted:      lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#86EFAC"),
		Warning:    lipgloss.Color("#FDE68A"),
		Error:      lipgloss.Color("#FCA5A5"),
		Border:     lipgloss.Color("#374151"),
	}
}

// Styles are the pre-built lipgloss styles the views render with.
type Styles struct {
	theme *Theme

	// Headers and body text.
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style

	// Transcript roles and annotations.
	UserLabel      lipgloss.Style // the person at the terminal
	AssistantLabel lipgloss.Style // Zoe's replies
	Source         lipgloss.Style // citation lines under a reply
	Notice         lipgloss.Style // non-blocking advisories

	// Outcome colours.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Chrome.
	InputField lipgloss.Style
	Attachment lipgloss.Style // staged attachment chips
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles builds the style set from a theme, falling back to the
// default palette when theme is nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Source: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Notice: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Attachment: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#0B1220")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
