package calendar

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents the color theme for the TUI
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Subtle    lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
}

// GruvboxTheme creates a new Gruvbox-inspired theme
func GruvboxTheme() Theme {
	return Theme{
		Primary: lipgloss.AdaptiveColor{
			Light: "#b8bb26", Dark: "#b8bb26",
		},
		Success: lipgloss.AdaptiveColor{
			Light: "#98971a", Dark: "#b8bb26",
		},
		Warning: lipgloss.AdaptiveColor{
			Light: "#d79921", Dark: "#fabd2f",
		},
		Error: lipgloss.AdaptiveColor{
			Light: "#cc241d", Dark: "#fb4934",
		},
		Subtle: lipgloss.AdaptiveColor{
			Light: "#928374", Dark: "#7c6f64",
		},
		Border: lipgloss.AdaptiveColor{
			Light: "#d5c4a1", Dark: "#504945",
		},
		Text: lipgloss.AdaptiveColor{
			Light: "#3c3836", Dark: "#fbf1c7",
		},
		TextDim: lipgloss.AdaptiveColor{
			Light: "#7c6f64", Dark: "#a89984",
		},
		Highlight: lipgloss.AdaptiveColor{
			Light: "#d5c4a1", Dark: "#3c3836",
		},
	}
}

// DefaultTheme is the default theme for the TUI
var DefaultTheme = GruvboxTheme()

// Styles holds the lipgloss styles used by the calendar view.
type Styles struct {
	Title      lipgloss.Style
	WeekHeader lipgloss.Style
	StatusText lipgloss.Style
	Error      lipgloss.Style

	Cell         lipgloss.Style
	CellOutside  lipgloss.Style
	CellWeekend  lipgloss.Style
	CellSelected lipgloss.Style
	CellToday    lipgloss.Style

	HoursFull    lipgloss.Style
	HoursPartial lipgloss.Style
	FlashSuccess lipgloss.Style
	FlashWarning lipgloss.Style
}

// DefaultStyles returns the default styles for the calendar view.
func DefaultStyles() Styles {
	theme := DefaultTheme
	cell := lipgloss.NewStyle().
		Width(10).
		Height(2).
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			MarginBottom(1),
		WeekHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.TextDim).
			Width(12).
			Align(lipgloss.Center),
		StatusText: lipgloss.NewStyle().
			Foreground(theme.TextDim),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Cell: cell.Foreground(theme.Text),
		CellOutside: cell.
			Foreground(theme.Subtle).
			BorderForeground(theme.Highlight),
		CellWeekend: cell.Foreground(theme.TextDim),
		CellSelected: cell.
			BorderForeground(theme.Primary).
			Bold(true),
		CellToday: cell.
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Warning),

		HoursFull:    lipgloss.NewStyle().Foreground(theme.Success),
		HoursPartial: lipgloss.NewStyle().Foreground(theme.Warning),
		FlashSuccess: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true).
			Reverse(true),
		FlashWarning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true).
			Reverse(true),
	}
}
