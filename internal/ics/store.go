// Package ics holds imported calendar data for the lifetime of one session.
// Nothing here is persisted: clearing the session (or restarting) drops both
// the raw text and the parsed events.
package ics

import (
	"sync"
)

// Store keeps the raw ICS text and its parsed events for the session.
type Store struct {
	mu     sync.RWMutex
	raw    string
	events []Event
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Set parses content and replaces the session's calendar data. On parse
// failure the previous content is kept.
func (s *Store) Set(content string) error {
	events, err := Parse(content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = content
	s.events = events
	return nil
}

// Raw returns the stored ICS text, empty when nothing is loaded.
func (s *Store) Raw() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw
}

// Events returns a copy of the parsed events.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsOn returns the events whose occurrences include the given day key
// (YYYY-MM-DD).
func (s *Store) EventsOn(dayKey string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		for _, occ := range e.Occurrences {
			if occ.Date == dayKey {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Clear drops the session's calendar data.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = ""
	s.events = nil
}

// HasContent reports whether calendar data is loaded.
func (s *Store) HasContent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw != ""
}
