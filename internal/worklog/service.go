// Package worklog maintains the session cache of tracker worklogs: per-day
// entry buckets with derived hour totals, a claim set of fully synchronized
// months, and the transient post-edit highlight state.
package worklog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nitchakarn/worklogcal/internal/calendar"
	"github.com/nitchakarn/worklogcal/internal/jira"
	"github.com/nitchakarn/worklogcal/internal/loggy"
)

// TrackerClient is the slice of the Jira client the cache depends on.
type TrackerClient interface {
	HasCredentials() bool
	Myself(ctx context.Context) (jira.User, error)
	SearchWorklogIssues(ctx context.Context, start, end time.Time) ([]jira.Issue, error)
	IssueWorklogs(ctx context.Context, issueKey string, startAt int, startedAfter, startedBefore time.Time) (*jira.WorklogPage, error)
}

// Service owns the per-day worklog buckets and the month claim set for one
// session. A single instance is shared by everything that reads hours.
type Service struct {
	client TrackerClient
	loc    *time.Location
	logger *loggy.Logger

	mu           sync.Mutex
	buckets      map[string]*dayBucket
	loadedMonths map[string]struct{}
}

// NewService creates a worklog cache around the given tracker client. All
// bucket keys, claim keys and query ranges use loc; a nil loc means
// time.Local.
func NewService(client TrackerClient, loc *time.Location, logger *loggy.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		client:       client,
		loc:          loc,
		logger:       logger,
		buckets:      make(map[string]*dayBucket),
		loadedMonths: make(map[string]struct{}),
	}
}

// Location returns the timezone all cache keys are expressed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// EnsureMonthLoaded fetches all of the current user's worklogs dated within
// the given month, unless that month is already claimed. The claim is taken
// before any network call so rapid re-invocations are no-ops; it is released
// on failure so a later call retries the whole sequence. Entries inserted
// before a failure are kept: insertion is deduplicated by worklog ID, so a
// retry converges on the same final state.
func (s *Service) EnsureMonthLoaded(ctx context.Context, month calendar.Month) error {
	if !s.client.HasCredentials() {
		return jira.ErrMissingCredentials
	}

	// Re-anchor the month in the cache timezone so claim keys, bucket keys
	// and the remote query range all agree.
	month = calendar.NewMonth(month.Year, month.Month, s.loc)
	monthKey := month.Key()

	// Claim-then-fetch: the check and the insert are a single step under
	// the lock, so concurrent callers cannot both start a fetch.
	s.mu.Lock()
	if _, loaded := s.loadedMonths[monthKey]; loaded {
		s.mu.Unlock()
		return nil
	}
	s.loadedMonths[monthKey] = struct{}{}
	s.mu.Unlock()

	if err := s.loadMonth(ctx, month); err != nil {
		s.mu.Lock()
		delete(s.loadedMonths, monthKey)
		s.mu.Unlock()
		return fmt.Errorf("loading month %s: %w", monthKey, err)
	}

	return nil
}

// loadMonth runs the two-phase fetch: find issues with the user's worklogs
// in range, resolve the user once, then page through each issue's worklogs.
func (s *Service) loadMonth(ctx context.Context, month calendar.Month) error {
	monthStart := month.First()
	// End of the last day; the per-issue endpoint takes millisecond bounds.
	monthEnd := month.Next().First().Add(-time.Millisecond)

	startKey := monthStart.Format(DateKeyLayout)
	endKey := month.Last().Format(DateKeyLayout)

	issues, err := s.client.SearchWorklogIssues(ctx, monthStart, month.Last())
	if err != nil {
		return err
	}

	// Resolved once per call, not cached across calls, so credential
	// changes are picked up by the next sync.
	me, err := s.client.Myself(ctx)
	if err != nil {
		return err
	}

	s.logger.Debug("Syncing month worklogs",
		"month", month.Key(),
		"issues", len(issues),
	)

	// Issues are fetched concurrently; pages within one issue stay
	// strictly sequential because the termination condition depends on the
	// server-reported total from the first page.
	g, ctx := errgroup.WithContext(ctx)
	for _, issue := range issues {
		issue := issue
		g.Go(func() error {
			return s.fetchIssueWorklogs(ctx, issue, me, monthStart, monthEnd, startKey, endKey)
		})
	}

	return g.Wait()
}

func (s *Service) fetchIssueWorklogs(ctx context.Context, issue jira.Issue, me jira.User, startedAfter, startedBefore time.Time, startKey, endKey string) error {
	startAt := 0
	for {
		page, err := s.client.IssueWorklogs(ctx, issue.Key, startAt, startedAfter, startedBefore)
		if err != nil {
			return err
		}

		for _, wl := range page.Worklogs {
			if !authoredBy(wl, me) {
				continue
			}

			// The endpoint may return entries outside the requested window.
			key := dateKey(wl.Started.Time(), s.loc)
			if key < startKey || key > endKey {
				continue
			}

			s.insert(key, Entry{
				ID:               wl.ID,
				IssueKey:         issue.Key,
				Summary:          issue.Fields.Summary,
				TimeSpentSeconds: wl.TimeSpentSeconds,
				IssueType:        issue.Fields.IssueType.Name,
			})
		}

		step := page.MaxResults
		if step <= 0 {
			step = len(page.Worklogs)
		}
		if step == 0 {
			return nil
		}

		startAt += step
		if startAt >= page.Total {
			return nil
		}
	}
}

// authoredBy matches a worklog to the current user by account ID when the
// tracker provides one, falling back to email comparison.
func authoredBy(wl jira.Worklog, me jira.User) bool {
	if wl.Author.AccountID != "" {
		return wl.Author.AccountID == me.AccountID
	}
	return wl.Author.EmailAddress != "" && wl.Author.EmailAddress == me.EmailAddress
}

// insert adds an entry to its day bucket unless an entry with the same ID is
// already present, then recomputes the bucket's hour total from the full
// list. Recompute-not-increment keeps the total correct under interleaved
// insertions from different issue fetches.
func (s *Service) insert(key string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[key]
	if !ok {
		bucket = &dayBucket{}
		s.buckets[key] = bucket
	}

	if bucket.contains(e.ID) {
		return
	}

	bucket.entries = append(bucket.entries, e)
	bucket.recompute()
}

// SetHours overrides a date's hour value directly without touching its entry
// list. Used before any sync has run, or for manual correction.
func (s *Service) SetHours(date time.Time, hours float64) {
	key := dateKey(date, s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[key]
	if !ok {
		bucket = &dayBucket{}
		s.buckets[key] = bucket
	}
	bucket.hours = hours
}

// AddHours increments a date's hour value by delta (which may be negative).
func (s *Service) AddHours(date time.Time, delta float64) {
	key := dateKey(date, s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[key]
	if !ok {
		bucket = &dayBucket{}
		s.buckets[key] = bucket
	}
	bucket.hours += delta
}

// GetHours returns the aggregate hours logged for a date, zero if unknown.
func (s *Service) GetHours(date time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.buckets[dateKey(date, s.loc)]; ok {
		return bucket.hours
	}
	return 0
}

// GetLogs returns a copy of the date's entry list in insertion order.
func (s *Service) GetLogs(date time.Time) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[dateKey(date, s.loc)]
	if !ok || len(bucket.entries) == 0 {
		return nil
	}

	out := make([]Entry, len(bucket.entries))
	copy(out, bucket.entries)
	return out
}

// MonthLoaded reports whether a month's sync has completed.
func (s *Service) MonthLoaded(month calendar.Month) bool {
	month = calendar.NewMonth(month.Year, month.Month, s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.loadedMonths[month.Key()]
	return ok
}

// ClearAll empties every bucket, hour override and month claim in one step.
// Used when credentials are cleared or replaced.
func (s *Service) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets = make(map[string]*dayBucket)
	s.loadedMonths = make(map[string]struct{})
}
