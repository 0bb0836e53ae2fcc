package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/utils"
	"github.com/nitchakarn/worklogcal/internal/worklog"
)

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// View renders the calendar TUI.
func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.month.String())
	}

	var sb strings.Builder

	title := m.month.String()
	if m.syncing {
		title = fmt.Sprintf("%s %s (syncing...)", m.spinner.View(), title)
	}
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n")

	var headers []string
	for _, h := range weekdayHeaders {
		headers = append(headers, m.styles.WeekHeader.Render(h))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	sb.WriteString("\n")

	loc := m.app.Worklog.Location()
	today := time.Now().In(loc)

	for _, week := range calendar.Weeks(m.month) {
		var cells []string
		for _, day := range week {
			idx := m.gridIndex(day)
			cells = append(cells, m.renderCell(day, idx == m.cursor, sameDay(day.Date, today)))
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		sb.WriteString("\n")
	}

	if m.error != "" {
		sb.WriteString(m.styles.Error.Render("✗ " + m.error))
		sb.WriteString("\n")
	}
	if m.editing {
		sb.WriteString(m.styles.StatusText.Render(m.status))
		sb.WriteString(m.editBuf)
		sb.WriteString("\n")
	} else if m.status != "" {
		sb.WriteString(m.styles.StatusText.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keymap))

	return sb.String()
}

// gridIndex finds a day's index in the flat grid.
func (m Model) gridIndex(day calendar.Day) int {
	for i, d := range m.grid {
		if sameDay(d.Date, day.Date) {
			return i
		}
	}
	return -1
}

// renderCell draws one day cell: the day number on the first line and the
// logged hours on the second, styled by month membership, selection and the
// transient highlight state.
func (m Model) renderCell(day calendar.Day, selected, isToday bool) string {
	hours := m.app.Worklog.GetHours(day.Date)
	hoursText := utils.FormatHours(hours)

	switch m.app.Highlighter.Color(day.Date) {
	case worklog.ColorSuccess:
		hoursText = m.styles.FlashSuccess.Render(hoursText)
	case worklog.ColorWarning:
		hoursText = m.styles.FlashWarning.Render(hoursText)
	default:
		switch {
		case hours >= 8:
			hoursText = m.styles.HoursFull.Render(hoursText)
		case hours > 0:
			hoursText = m.styles.HoursPartial.Render(hoursText)
		}
	}

	content := fmt.Sprintf("%2d\n%s", day.Date.Day(), hoursText)

	style := m.styles.Cell
	switch {
	case selected:
		style = m.styles.CellSelected
	case isToday:
		style = m.styles.CellToday
	case !day.InCurrentMonth:
		style = m.styles.CellOutside
	case day.IsWeekend:
		style = m.styles.CellWeekend
	}

	return style.Render(content)
}
