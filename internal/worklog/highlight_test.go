package worklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		hours float64
		want  Color
	}{
		{0, ColorNeutral},
		{0.5, ColorWarning},
		{7.99, ColorWarning},
		{8, ColorSuccess},
		{12, ColorSuccess},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, colorFor(tt.hours), "colorFor(%v)", tt.hours)
	}
}

func TestMarkUpdatedColorRule(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		new  float64
		want Color
	}{
		{"stay full", 9, 9, ColorSuccess},
		{"stay partial", 3, 5, ColorWarning},
		{"became full", 0, 9, ColorSuccess},
		{"became partial", 0, 3, ColorWarning},
		{"partial to full", 4, 8, ColorSuccess},
		{"full to partial", 9, 4, ColorWarning},
		{"cleared from full", 9, 0, ColorSuccess},
		{"cleared from partial", 3, 0, ColorWarning},
		{"stayed empty", 0, 0, ColorNeutral},
	}

	date := time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHighlighter(time.Minute, time.UTC)
			defer h.Stop()

			h.MarkUpdated(date, tt.prev, tt.new)

			assert.Equal(t, tt.want, h.Color(date))
			assert.True(t, h.IsRecentlyUpdated(date))
		})
	}
}

func TestHighlightExpires(t *testing.T) {
	h := NewHighlighter(20*time.Millisecond, time.UTC)
	defer h.Stop()

	date := time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC)
	h.MarkUpdated(date, 0, 9)

	require.True(t, h.IsRecentlyUpdated(date))

	assert.Eventually(t, func() bool {
		return !h.IsRecentlyUpdated(date)
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, ColorNeutral, h.Color(date))
}

func TestMarkUpdatedRestartsWindow(t *testing.T) {
	h := NewHighlighter(50*time.Millisecond, time.UTC)
	defer h.Stop()

	date := time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC)

	h.MarkUpdated(date, 0, 9)
	time.Sleep(30 * time.Millisecond)

	// Second edit before expiry replaces the color and restarts the timer.
	h.MarkUpdated(date, 9, 4)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, h.IsRecentlyUpdated(date), "superseded timer must not clear the new highlight")
	assert.Equal(t, ColorWarning, h.Color(date))

	assert.Eventually(t, func() bool {
		return !h.IsRecentlyUpdated(date)
	}, time.Second, 5*time.Millisecond)
}

func TestHighlightDatesIndependent(t *testing.T) {
	h := NewHighlighter(time.Minute, time.UTC)
	defer h.Stop()

	a := time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)

	h.MarkUpdated(a, 0, 9)

	assert.True(t, h.IsRecentlyUpdated(a))
	assert.False(t, h.IsRecentlyUpdated(b))
	assert.Equal(t, ColorNeutral, h.Color(b))
}

func TestHighlightIgnoresTimeOfDay(t *testing.T) {
	h := NewHighlighter(time.Minute, time.UTC)
	defer h.Stop()

	morning := time.Date(2024, time.February, 14, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, time.February, 14, 22, 0, 0, 0, time.UTC)

	h.MarkUpdated(morning, 0, 9)

	assert.True(t, h.IsRecentlyUpdated(evening))
	assert.Equal(t, ColorSuccess, h.Color(evening))
}

func TestNewHighlighterDefaults(t *testing.T) {
	h := NewHighlighter(0, nil)
	defer h.Stop()

	assert.Equal(t, DefaultHighlightWindow, h.window)
	assert.NotNil(t, h.loc)
}
