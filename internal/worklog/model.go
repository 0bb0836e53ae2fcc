package worklog

import "time"

// DateKeyLayout is the canonical day key used across the cache.
const DateKeyLayout = "2006-01-02"

// Entry is one worklog record assigned to a day bucket. The ID is assigned
// by the tracker and is unique within a day's collection.
type Entry struct {
	ID               string
	IssueKey         string
	Summary          string
	TimeSpentSeconds int
	IssueType        string
}

// dayBucket holds a date's entries in insertion order together with the
// derived hour total. Once entries exist, hours is always recomputed from
// the full entry list, never adjusted in place.
type dayBucket struct {
	entries []Entry
	hours   float64
}

func (b *dayBucket) recompute() {
	total := 0
	for _, e := range b.entries {
		total += e.TimeSpentSeconds
	}
	b.hours = float64(total) / 3600.0
}

func (b *dayBucket) contains(id string) bool {
	for _, e := range b.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}
