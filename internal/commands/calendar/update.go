package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/jira"
	"github.com/nitchakarn/worklogcal/internal/utils"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)

	case spinner.TickMsg:
		if m.loading || m.syncing {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case MonthLoadedMsg:
		// Ignore results for months the user has already navigated away from.
		if msg.Month.Key() == m.month.Key() {
			m.loading = false
			m.syncing = false
			if msg.Err != nil {
				if msg.Err == jira.ErrMissingCredentials {
					m.status = "No Jira credentials configured. Run: worklogcal config credentials"
				} else {
					m.error = msg.Err.Error()
					m.status = "Sync failed; showing cached data. Press r to retry."
				}
			} else {
				m.error = ""
				m.status = fmt.Sprintf("%s synced.", m.month.String())
			}
		}

	case HoursSavedMsg:
		m.status = fmt.Sprintf("Saved %s for %s", utils.FormatHours(msg.Hours), msg.DayKey)
		cmds = append(cmds, m.highlightTick())

	case HighlightTickMsg:
		// Redraw only; the highlighter clears its own state.
	}

	return m, tea.Batch(cmds...)
}

// updateBrowsing handles keys in the normal grid navigation state.
func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keymap.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Right):
		if m.cursor < len(m.grid)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.Up):
		if m.cursor >= 7 {
			m.cursor -= 7
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor+7 < len(m.grid) {
			m.cursor += 7
		}

	case key.Matches(msg, m.keymap.PrevMonth):
		m.setMonth(m.month.Prev())
		m.syncing = true
		m.status = "Syncing " + m.month.String() + "..."
		return m, tea.Batch(m.spinner.Tick, m.loadMonth(m.month))

	case key.Matches(msg, m.keymap.NextMonth):
		m.setMonth(m.month.Next())
		m.syncing = true
		m.status = "Syncing " + m.month.String() + "..."
		return m, tea.Batch(m.spinner.Tick, m.loadMonth(m.month))

	case key.Matches(msg, m.keymap.Today):
		loc := m.app.Worklog.Location()
		m.setMonth(calendar.MonthOf(time.Now().In(loc)))
		m.syncing = true
		return m, tea.Batch(m.spinner.Tick, m.loadMonth(m.month))

	case key.Matches(msg, m.keymap.Refresh):
		m.syncing = true
		m.status = "Resyncing " + m.month.String() + "..."
		m.app.Worklog.ClearAll()
		return m, tea.Batch(m.spinner.Tick, m.loadMonth(m.month))

	case key.Matches(msg, m.keymap.Edit):
		day := m.selected()
		if day.InCurrentMonth {
			m.editing = true
			m.editBuf = ""
			m.status = fmt.Sprintf("Hours for %s (enter to save, esc to cancel): ",
				day.Date.Format("2006-01-02"))
		}
	}

	return m, nil
}

// updateEditing handles keys while the hour input prompt is open.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.editBuf = ""
		m.status = ""

	case "enter":
		hours, err := utils.ParseHours(m.editBuf)
		if err != nil {
			m.status = err.Error()
			m.editBuf = ""
			return m, nil
		}
		m.editing = false
		date := m.selected().Date
		m.editBuf = ""
		return m, m.applyEdit(date, hours)

	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}

	default:
		s := msg.String()
		if len(s) == 1 && (strings.ContainsAny(s, "0123456789") || s == ".") {
			m.editBuf += s
		}
	}

	return m, nil
}
