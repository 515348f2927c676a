// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Theme is the colour palette every style is derived from.
type Theme struct {
	Accent  lipgloss.Color // titles and the menu cursor
	Info    lipgloss.Color // subtitles and the answer rule
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Panel   lipgloss.Color // status bar background
	Border  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#7C3AED"),
		Info:    lipgloss.Color("#06B6D4"),
		Text:    lipgloss.Color("#CDD6F4"),
		Dim:     lipgloss.Color("#6C7086"),
		Panel:   lipgloss.Color("#181825"),
		Border:  lipgloss.Color("#45475A"),
		Success: lipgloss.Color("#A6E3A1"),
		Warning: lipgloss.Color("#F9E2AF"),
		Error:   lipgloss.Color("#F38BA8"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style

	// Selected highlights the cursor row of a list.
	Selected lipgloss.Style

	// MenuItem and MenuActive render menu entries.
	MenuItem   lipgloss.Style
	MenuActive lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Answer frames a generated answer with a left rule.
	Answer lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Info).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Help:     fg(theme.Dim),

		Selected:   fg(theme.Text).Background(theme.Accent).Bold(true),
		MenuItem:   fg(theme.Text),
		MenuActive: fg(theme.Accent).Bold(true),

		Success: fg(theme.Success),
		Warning: fg(theme.Warning),
		Error:   fg(theme.Error),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Dim).Background(theme.Panel).Padding(0, 1),

		Answer: fg(theme.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Info).
			PaddingLeft(1),
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

// Status returns the style for a document status.
func (s *Styles) Status(status domain.DocumentStatus) lipgloss.Style {
	switch status {
	case domain.StatusProcessed:
		return s.Success
	case domain.StatusFailed:
		return s.Error
	case domain.StatusUploaded, domain.StatusProcessing:
		return s.Warning
	default:
		return s.Muted
	}
}

// Confidence returns the style for an answer confidence in [0, 1].
func (s *Styles) Confidence(c float64) lipgloss.Style {
	switch {
	case c >= 0.8:
		return s.Success
	case c >= 0.4:
		return s.Warning
	default:
		return s.Error
	}
}
