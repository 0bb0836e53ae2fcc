package calendar

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/loggy"
	"github.com/nitchakarn/worklogcal/internal/worklog"
)

// loadMonth syncs a month's worklogs in the background.
func (m Model) loadMonth(month calendar.Month) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		err := m.app.Worklog.EnsureMonthLoaded(ctx, month)
		if err != nil {
			loggy.Error("Month sync failed", "month", month.Key(), "error", err)
		}
		return MonthLoadedMsg{Month: month, Err: err}
	}
}

// applyEdit stores an inline hour edit and flashes the day's highlight.
func (m Model) applyEdit(date time.Time, hours float64) tea.Cmd {
	return func() tea.Msg {
		prev := m.app.Worklog.GetHours(date)
		m.app.Worklog.SetHours(date, hours)
		m.app.Highlighter.MarkUpdated(date, prev, hours)

		loggy.Debug("Hours updated",
			"date", date.Format(worklog.DateKeyLayout),
			"prev", prev,
			"new", hours,
		)

		return HoursSavedMsg{
			DayKey: date.Format(worklog.DateKeyLayout),
			Hours:  hours,
		}
	}
}

// highlightTick schedules a redraw slightly past the highlight window so the
// expired state is repainted without user input.
func (m Model) highlightTick() tea.Cmd {
	window := m.app.Config.Calendar.HighlightWindow
	if window <= 0 {
		window = worklog.DefaultHighlightWindow
	}

	return tea.Tick(window+50*time.Millisecond, func(time.Time) tea.Msg {
		return HighlightTickMsg{}
	})
}
