// Package ceremony manages recurring team ceremony schedules: which tracker
// issues a team logs hours against on each weekday of a two-week sprint, and
// the named duration presets used when adding a ceremony by hand.
package ceremony

import "time"

// Team is a named team with a stable lookup key.
type Team struct {
	ID        string
	Key       string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SprintWeek selects one half of a two-week sprint.
type SprintWeek int

const (
	Week1 SprintWeek = 1
	Week2 SprintWeek = 2
)

// SprintWeekFor maps a date to its sprint week. Odd ISO weeks are week 1,
// even ISO weeks are week 2.
func SprintWeekFor(date time.Time) SprintWeek {
	_, week := date.ISOWeek()
	if week%2 == 1 {
		return Week1
	}
	return Week2
}

// ScheduleEntry is one issue/hours pair a team logs on a given weekday of a
// given sprint week. Weekday runs Monday (1) through Friday (5).
type ScheduleEntry struct {
	ID         string
	TeamID     string
	SprintWeek SprintWeek
	Weekday    time.Weekday
	IssueKey   string
	Hours      float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Task is the issue/hours pair surfaced to callers for a concrete date.
type Task struct {
	IssueKey string
	Hours    float64
}

// Duration is a named ceremony preset with its default hours and issue.
type Duration struct {
	ID        string
	Label     string
	Hours     float64
	IssueKey  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// defaultDurations seed the presets table on first run.
var defaultDurations = []Duration{
	{Label: "Daily Stand-up", Hours: 0.25, IssueKey: "ADM-17"},
	{Label: "Health Check", Hours: 0.5, IssueKey: "ADM-18"},
	{Label: "Grooming", Hours: 1, IssueKey: "ADM-19"},
	{Label: "Knowledge Sharing", Hours: 1, IssueKey: "ADM-20"},
	{Label: "Planning", Hours: 1, IssueKey: "ADM-16"},
	{Label: "Retrospective", Hours: 1, IssueKey: "ADM-18"},
}
