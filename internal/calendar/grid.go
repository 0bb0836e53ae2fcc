// Package calendar generates fixed-week month grids for a Sunday-first calendar.
package calendar

import "time"

// Day is a single cell in a month grid. Cells at the edges of the grid may
// belong to the previous or next month; InCurrentMonth distinguishes them.
type Day struct {
	Date           time.Time
	InCurrentMonth bool
	IsWeekend      bool
}

// Month identifies a calendar month. The zero-value Day field is always 1 so
// that month arithmetic never rolls over on uneven month lengths (navigating
// forward from Jan 31 must land on Feb 1, not Mar 3).
type Month struct {
	Year  int
	Month time.Month
	loc   *time.Location
}

// MonthOf returns the Month containing t, anchored to day 1 in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month(), loc: t.Location()}
}

// NewMonth returns the given year/month anchored in loc. A nil loc defaults
// to time.Local.
func NewMonth(year int, month time.Month, loc *time.Location) Month {
	if loc == nil {
		loc = time.Local
	}
	// Normalize out-of-range months (e.g. month 13) the same way time.Date does.
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Month{Year: first.Year(), Month: first.Month(), loc: loc}
}

// First returns midnight on the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.location())
}

// Last returns midnight on the last day of the month, computed via day 0 of
// the following month.
func (m Month) Last() time.Time {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, m.location())
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.Last().Day()
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	return NewMonth(m.Year, m.Month-1, m.location())
}

// Next returns the following month.
func (m Month) Next() Month {
	return NewMonth(m.Year, m.Month+1, m.location())
}

// Key returns the YYYY-MM form used to identify the month in caches.
func (m Month) Key() string {
	return m.First().Format("2006-01")
}

// String returns a human-readable form, e.g. "February 2024".
func (m Month) String() string {
	return m.First().Format("January 2006")
}

func (m Month) location() *time.Location {
	if m.loc == nil {
		return time.Local
	}
	return m.loc
}

// Grid returns the display cells for the month: full Sunday-first weeks sized
// to the minimum multiple of seven that covers the month plus its leading
// spill from the previous month. The result is always 28, 35 or 42 cells.
func Grid(m Month) []Day {
	first := m.First()

	// Leading cells borrowed from the previous month, Sunday=0.
	leading := int(first.Weekday())

	totalCells := ((leading + m.Days() + 6) / 7) * 7

	days := make([]Day, 0, totalCells)
	for i := 0; i < totalCells; i++ {
		// Day numbers below 1 or past the end of the month roll into the
		// adjacent months via time.Date normalization.
		date := time.Date(m.Year, m.Month, i-leading+1, 0, 0, 0, 0, m.location())
		wd := date.Weekday()
		days = append(days, Day{
			Date:           date,
			InCurrentMonth: date.Month() == m.Month && date.Year() == m.Year,
			IsWeekend:      wd == time.Sunday || wd == time.Saturday,
		})
	}
	return days
}

// Weeks returns the grid split into rows of seven cells.
func Weeks(m Month) [][]Day {
	days := Grid(m)
	weeks := make([][]Day, 0, len(days)/7)
	for i := 0; i < len(days); i += 7 {
		weeks = append(weeks, days[i:i+7])
	}
	return weeks
}
