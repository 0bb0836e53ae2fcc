package calendar

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nitchakarn/worklogcal/internal/app"
	"github.com/nitchakarn/worklogcal/internal/calendar"
)

// Model is the Bubble Tea model for the calendar TUI
type Model struct {
	app     *app.App
	keymap  KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles

	// Calendar state
	month  calendar.Month
	grid   []calendar.Day
	cursor int // index into grid

	// UI state
	loading  bool
	syncing  bool
	editing  bool
	editBuf  string
	showHelp bool
	status   string
	error    string
	width    int
	height   int
}

// NewModel initializes and returns a new Model
func NewModel(a *app.App, month calendar.Month) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		app:     a,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		styles:  DefaultStyles(),
		loading: true,
		status:  "Loading...",
	}
	m.setMonth(month)
	return m
}

// setMonth switches the visible month and places the cursor on the first
// in-month day (or today when the current month is shown).
func (m *Model) setMonth(month calendar.Month) {
	m.month = month
	m.grid = calendar.Grid(month)

	loc := m.app.Worklog.Location()
	today := time.Now().In(loc)
	m.cursor = -1
	for i, day := range m.grid {
		if !day.InCurrentMonth {
			continue
		}
		if m.cursor < 0 {
			m.cursor = i
		}
		if sameDay(day.Date, today) {
			m.cursor = i
			break
		}
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the day under the cursor.
func (m Model) selected() calendar.Day {
	return m.grid[m.cursor]
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Init initializes the model and returns the initial command
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMonth(m.month))
}
