package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSize(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		wantDays  int
		wantCells int
	}{
		{
			name:      "leap year February starting Thursday",
			year:      2024,
			month:     time.February,
			wantDays:  29,
			wantCells: 35,
		},
		{
			name:      "non-leap February starting Saturday",
			year:      2025,
			month:     time.February,
			wantDays:  28,
			wantCells: 35,
		},
		{
			name:      "thirty day month starting Saturday needs six rows",
			year:      2023,
			month:     time.April,
			wantDays:  30,
			wantCells: 42,
		},
		{
			name:      "February 2015 starts Sunday and fits four rows",
			year:      2015,
			month:     time.February,
			wantDays:  28,
			wantCells: 28,
		},
		{
			name:      "December year boundary",
			year:      2024,
			month:     time.December,
			wantDays:  31,
			wantCells: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonth(tt.year, tt.month, time.UTC)
			assert.Equal(t, tt.wantDays, m.Days(), "days in month")

			grid := Grid(m)
			assert.Len(t, grid, tt.wantCells, "total cells")
			assert.Zero(t, len(grid)%7, "grid must be whole weeks")
			assert.GreaterOrEqual(t, len(grid), 28)
			assert.LessOrEqual(t, len(grid), 42)
		})
	}
}

func TestGridContainsWholeMonth(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		m := NewMonth(2024, month, time.UTC)
		grid := Grid(m)

		inMonth := 0
		for _, d := range grid {
			if d.InCurrentMonth {
				inMonth++
			}
		}
		assert.Equal(t, m.Days(), inMonth, "every day of %s marked in-month exactly once", m)

		first := grid[int(m.First().Weekday())]
		require.True(t, first.InCurrentMonth)
		assert.Equal(t, 1, first.Date.Day(), "first of %s at its weekday offset", m)

		last := grid[int(m.First().Weekday())+m.Days()-1]
		require.True(t, last.InCurrentMonth)
		assert.Equal(t, m.Days(), last.Date.Day(), "last of %s in the grid", m)
	}
}

func TestGridStartsOnSunday(t *testing.T) {
	m := NewMonth(2023, time.April, time.UTC)
	grid := Grid(m)

	for i, d := range grid {
		assert.Equal(t, time.Weekday(i%7), d.Date.Weekday(), "cell %d weekday", i)
		wd := d.Date.Weekday()
		assert.Equal(t, wd == time.Saturday || wd == time.Sunday, d.IsWeekend)
	}

	// April 2023 starts on a Saturday, so the leading six cells spill from March.
	for i := 0; i < 6; i++ {
		assert.False(t, grid[i].InCurrentMonth, "cell %d is March spill", i)
		assert.Equal(t, time.March, grid[i].Date.Month())
	}
}

func TestNavigationIsInvertible(t *testing.T) {
	anchors := []time.Time{
		time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.December, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, anchor := range anchors {
		m := MonthOf(anchor)
		assert.Equal(t, m, m.Next().Prev(), "prev(next(%s))", m)
		assert.Equal(t, m, m.Prev().Next(), "next(prev(%s))", m)
	}
}

func TestNavigationYearRollover(t *testing.T) {
	dec := NewMonth(2023, time.December, time.UTC)
	jan := dec.Next()
	assert.Equal(t, 2024, jan.Year)
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, dec, jan.Prev())
}

func TestNavigationFromUnevenMonthLengths(t *testing.T) {
	// Anchoring on Jan 31 must not skip February when stepping forward.
	m := MonthOf(time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC))
	next := m.Next()
	assert.Equal(t, time.February, next.Month)
	assert.Equal(t, 2023, next.Year)
}

func TestMonthKey(t *testing.T) {
	m := NewMonth(2024, time.February, time.UTC)
	assert.Equal(t, "2024-02", m.Key())
}

func TestWeeks(t *testing.T) {
	m := NewMonth(2023, time.April, time.UTC)
	weeks := Weeks(m)
	require.Len(t, weeks, 6)
	for _, week := range weeks {
		assert.Len(t, week, 7)
		assert.Equal(t, time.Sunday, week[0].Date.Weekday())
	}
}
