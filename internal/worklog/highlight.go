package worklog

import (
	"sync"
	"time"
)

// Color is the transient feedback color flashed after an hour edit.
type Color string

const (
	// ColorSuccess marks a fully logged day (8h or more)
	ColorSuccess Color = "success"

	// ColorWarning marks a partially logged day
	ColorWarning Color = "warning"

	// ColorNeutral marks a day with nothing logged
	ColorNeutral Color = "neutral"
)

// DefaultHighlightWindow is how long a highlight stays visible.
const DefaultHighlightWindow = 700 * time.Millisecond

// colorFor buckets an hour total into its feedback tier.
func colorFor(hours float64) Color {
	switch {
	case hours >= 8:
		return ColorSuccess
	case hours > 0:
		return ColorWarning
	default:
		return ColorNeutral
	}
}

// Highlighter tracks short-lived per-date highlight state so a UI can flash
// feedback after a write. Every date starts unhighlighted; MarkUpdated
// highlights it and a per-date timer clears it after the window elapses.
type Highlighter struct {
	window time.Duration
	loc    *time.Location

	mu     sync.Mutex
	colors map[string]Color
	timers map[string]*time.Timer
}

// NewHighlighter creates a tracker with the given visibility window. A
// non-positive window falls back to the default.
func NewHighlighter(window time.Duration, loc *time.Location) *Highlighter {
	if window <= 0 {
		window = DefaultHighlightWindow
	}
	if loc == nil {
		loc = time.Local
	}
	return &Highlighter{
		window: window,
		loc:    loc,
		colors: make(map[string]Color),
		timers: make(map[string]*time.Timer),
	}
}

// MarkUpdated records a highlight for date based on the hour totals before
// and after a write, then schedules its removal. A second call for the same
// date before expiry replaces both the color and the timer, restarting the
// window; the superseded timer never clears the new state.
//
// Color selection: an unchanged tier flashes that tier; a transition to a
// colored tier flashes the new color; a transition to empty flashes the
// previous color so a cleared day still shows what it used to be.
func (h *Highlighter) MarkUpdated(date time.Time, prevHours, newHours float64) {
	key := dateKey(date, h.loc)

	prevColor := colorFor(prevHours)
	newColor := colorFor(newHours)

	flash := prevColor
	if newColor != prevColor && newColor != ColorNeutral {
		flash = newColor
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.timers[key]; ok {
		old.Stop()
	}

	h.colors[key] = flash

	var timer *time.Timer
	timer = time.AfterFunc(h.window, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		// Only clear if this timer is still the active one for the date.
		if h.timers[key] == timer {
			delete(h.colors, key)
			delete(h.timers, key)
		}
	})
	h.timers[key] = timer
}

// Color returns the active highlight color for a date, ColorNeutral when
// none is active.
func (h *Highlighter) Color(date time.Time) Color {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.colors[dateKey(date, h.loc)]; ok {
		return c
	}
	return ColorNeutral
}

// IsRecentlyUpdated reports whether a date currently has an active highlight.
func (h *Highlighter) IsRecentlyUpdated(date time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.colors[dateKey(date, h.loc)]
	return ok
}

// Stop cancels all pending expiry timers. Highlight state is left in place;
// intended for shutdown.
func (h *Highlighter) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, timer := range h.timers {
		timer.Stop()
		delete(h.timers, key)
	}
}
