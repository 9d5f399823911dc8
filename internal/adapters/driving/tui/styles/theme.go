// Package styles provides colour themes and styling for the chat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette the chat screen is drawn with.
type Theme struct {
	// Accent marks titles, the spinner and the selected chunk.
	Accent lipgloss.Color

	// Question colours the user's side of the transcript.
	Question lipgloss.Color

	// Text is the answer and body colour.
	Text lipgloss.Color

	// Muted is for sources, previews and help.
	Muted lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color

	// Rule draws input and panel borders.
	Rule lipgloss.Color

	// Near, Far and Fail grade outcomes from good to bad.
	Near lipgloss.Color
	Far  lipgloss.Color
	Fail lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:   lipgloss.Color("#7C3AED"), // Purple
		Question: lipgloss.Color("#06B6D4"), // Cyan
		Text:     lipgloss.Color("#CDD6F4"), // Light gray
		Muted:    lipgloss.Color("#6C7086"), // Medium gray
		Bar:      lipgloss.Color("#181825"),
		Rule:     lipgloss.Color("#45475A"),
		Near:     lipgloss.Color("#A6E3A1"), // Green
		Far:      lipgloss.Color("#F9E2AF"), // Yellow
		Fail:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Distance bands for unit-length embeddings, whose squared L2 distance lies in [0, 4].
const (
	NearDistance = 0.8
	FarDistance  = 1.4
)

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	// Error, Success and Warning report outcomes; Warning also marks the no-answer reply.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Transcript styles.
	Question lipgloss.Style
	Answer   lipgloss.Style
	Source   lipgloss.Style
	Spinner  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Question),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Background(theme.Accent),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted),

		Error:   lipgloss.NewStyle().Foreground(theme.Fail),
		Success: lipgloss.NewStyle().Foreground(theme.Near),
		Warning: lipgloss.NewStyle().Foreground(theme.Far),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Rule).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Question: lipgloss.NewStyle().Bold(true).Foreground(theme.Question),
		Answer:   lipgloss.NewStyle().Foreground(theme.Text).PaddingLeft(2),
		Source:   lipgloss.NewStyle().Italic(true).Foreground(theme.Muted).PaddingLeft(2),
		Spinner:  lipgloss.NewStyle().Foreground(theme.Accent),
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

// Distance returns the style grading a retrieval distance: close matches
// render as success, distant ones as a warning and the rest as an error.
func (s *Styles) Distance(d float32) lipgloss.Style {
	switch {
	case d < NearDistance:
		return s.Success
	case d < FarDistance:
		return s.Warning
	default:
		return s.Error
	}
}
