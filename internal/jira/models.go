package jira

import (
	"fmt"
	"strings"
	"time"
)

// startedLayout is the timestamp format Jira uses for worklog "started"
// fields, e.g. "2024-02-05T09:30:00.000+0700".
const startedLayout = "2006-01-02T15:04:05.000-0700"

// Time handles Jira's worklog timestamp encoding.
type Time time.Time

// UnmarshalJSON parses Jira's padded-millisecond layout, falling back to
// RFC3339 for servers that emit it.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time(time.Time{})
		return nil
	}

	parsed, err := time.Parse(startedLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parsing jira timestamp %q: %w", s, err)
		}
	}

	*t = Time(parsed)
	return nil
}

// MarshalJSON encodes the timestamp in Jira's layout.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(startedLayout) + `"`), nil
}

// Time returns the underlying time.Time.
func (t Time) Time() time.Time {
	return time.Time(t)
}

// User is the authenticated Jira account, from GET /rest/api/3/myself.
type User struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// IssueType is the nested issue type descriptor inside issue fields.
type IssueType struct {
	Name string `json:"name"`
}

// IssueFields carries the subset of fields requested by worklog searches.
type IssueFields struct {
	Summary   string    `json:"summary"`
	IssueType IssueType `json:"issuetype"`
}

// Issue is a single issue returned by a JQL search.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// searchRequest is the POST body for /rest/api/3/search/jql.
type searchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}

// SearchResult is the response of a JQL search.
type SearchResult struct {
	Issues []Issue `json:"issues"`
}

// Worklog is one time record attached to an issue.
type Worklog struct {
	ID               string `json:"id"`
	Started          Time   `json:"started"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Author           User   `json:"author"`
}

// WorklogPage is one page of an issue's worklog listing. Total reflects the
// full count on the server and is only meaningful after the first page has
// been fetched.
type WorklogPage struct {
	Worklogs   []Worklog `json:"worklogs"`
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
}
