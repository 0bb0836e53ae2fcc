package ics

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Event is one calendar entry with the dates it occurs on and the hours it
// spans. The issue key is taken from the event summary when one is present,
// e.g. "ADM-17 Daily Stand-up".
type Event struct {
	Title       string
	IssueKey    string
	Occurrences []Occurrence
}

// Occurrence is a single dated instance of an event.
type Occurrence struct {
	Date  string // YYYY-MM-DD
	Hours float64
}

var issueKeyPattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-\d+)\b`)

// dtstamp layouts seen in exported calendars, tried in order.
var dtLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// Parse extracts VEVENT blocks from ICS text. Events without a parseable
// DTSTART are skipped; an event without DTEND counts as zero hours.
func Parse(content string) ([]Event, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty calendar content")
	}
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		return nil, fmt.Errorf("not an iCalendar document")
	}

	var events []Event
	var inEvent bool
	var summary string
	var start, end time.Time
	var hasStart, hasEnd bool

	for _, line := range unfoldLines(content) {
		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			summary = ""
			hasStart, hasEnd = false, false

		case line == "END:VEVENT":
			if inEvent && hasStart {
				hours := 0.0
				if hasEnd && end.After(start) {
					hours = end.Sub(start).Hours()
				}
				events = appendOccurrence(events, summary, start, hours)
			}
			inEvent = false

		case !inEvent:
			// Calendar-level properties are ignored.

		case strings.HasPrefix(line, "SUMMARY"):
			summary = propertyValue(line)

		case strings.HasPrefix(line, "DTSTART"):
			if t, err := parseDT(line); err == nil {
				start = t
				hasStart = true
			}

		case strings.HasPrefix(line, "DTEND"):
			if t, err := parseDT(line); err == nil {
				end = t
				hasEnd = true
			}
		}
	}

	return events, nil
}

// appendOccurrence merges an instance into the event with the same summary,
// creating it when first seen. Recurring events exported as separate VEVENTs
// collapse into one Event with multiple occurrences.
func appendOccurrence(events []Event, summary string, start time.Time, hours float64) []Event {
	occ := Occurrence{Date: start.Format("2006-01-02"), Hours: hours}

	for i := range events {
		if events[i].Title == summary {
			events[i].Occurrences = append(events[i].Occurrences, occ)
			return events
		}
	}

	issueKey := ""
	if m := issueKeyPattern.FindStringSubmatch(summary); m != nil {
		issueKey = m[1]
	}

	return append(events, Event{
		Title:       summary,
		IssueKey:    issueKey,
		Occurrences: []Occurrence{occ},
	})
}

// propertyValue strips the property name and any parameters before the
// colon, e.g. "SUMMARY;LANGUAGE=en:Standup" -> "Standup".
func propertyValue(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

func parseDT(line string) (time.Time, error) {
	value := propertyValue(line)
	for _, layout := range dtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported datetime %q", value)
}

// unfoldLines normalizes line endings and joins folded continuation lines
// (RFC 5545 folds long lines with CRLF followed by a space or tab).
func unfoldLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var out []string
	for _, line := range strings.Split(content, "\n") {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(out) > 0 {
			out[len(out)-1] += strings.TrimLeft(line, " \t")
			continue
		}
		out = append(out, strings.TrimRight(line, "\r"))
	}
	return out
}
