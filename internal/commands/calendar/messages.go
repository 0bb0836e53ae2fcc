package calendar

import "github.com/nitchakarn/worklogcal/internal/calendar"

type (
	// MonthLoadedMsg is sent when a month's worklog sync finishes.
	MonthLoadedMsg struct {
		Month calendar.Month
		Err   error
	}

	// HoursSavedMsg is sent after an inline hour edit is applied.
	HoursSavedMsg struct {
		DayKey string
		Hours  float64
	}

	// HighlightTickMsg redraws the grid while a post-edit highlight is
	// active, and once more after it expires.
	HighlightTickMsg struct{}
)
