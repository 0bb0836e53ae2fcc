// Package jira implements a thin client for the Jira Cloud REST API, scoped
// to the three endpoints the worklog cache needs: JQL search, identity
// lookup, and paginated per-issue worklogs.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/nitchakarn/worklogcal/internal/config"
	"github.com/nitchakarn/worklogcal/internal/loggy"
)

// ErrMissingCredentials is returned when no basic auth pair is configured.
// Callers treat it as "not connected yet", not as a fatal failure.
var ErrMissingCredentials = errors.New("jira credentials missing")

// APIError represents a non-2xx response from the Jira API
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira API error %d: %s", e.StatusCode, e.Status)
}

// Retryable reports whether the request that produced this error is worth
// repeating. Rate limits and server-side failures are; other 4xx are not.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client handles HTTP communication with a Jira instance
type Client struct {
	baseURL    string
	email      string
	token      string
	pageSize   int
	searchMax  int
	maxRetries int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *loggy.Logger
}

// NewClient creates a new Jira client from config
func NewClient(cfg config.JiraConfig, logger *loggy.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 300
	}
	burst := cfg.BurstLimit
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		email:      cfg.Email,
		token:      cfg.Token,
		pageSize:   cfg.PageSize,
		searchMax:  cfg.SearchMaxResults,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		logger:  logger,
	}
}

// SetCredentials updates the basic auth pair
func (c *Client) SetCredentials(email, token string) {
	c.email = email
	c.token = token
}

// HasCredentials reports whether a basic auth pair is configured
func (c *Client) HasCredentials() bool {
	return c.email != "" && c.token != ""
}

// Myself resolves the authenticated account, used for worklog author
// comparison. The result is intentionally not cached so that credential
// changes take effect on the next sync.
func (c *Client) Myself(ctx context.Context) (User, error) {
	var me User
	if err := c.doJSON(ctx, http.MethodGet, "/rest/api/3/myself", nil, &me); err != nil {
		return User{}, fmt.Errorf("resolving current user: %w", err)
	}
	return me, nil
}

// SearchWorklogIssues returns every issue with at least one worklog by the
// current user dated within [start, end]. Dates are rendered in the
// location of start, which the caller keeps consistent with its bucket keys.
func (c *Client) SearchWorklogIssues(ctx context.Context, start, end time.Time) ([]Issue, error) {
	jql := fmt.Sprintf(
		`worklogAuthor = currentUser() AND worklogDate >= %q AND worklogDate <= %q`,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)

	body := searchRequest{
		JQL:        jql,
		Fields:     []string{"summary", "issuetype"},
		MaxResults: c.searchMax,
	}

	var result SearchResult
	if err := c.doJSON(ctx, http.MethodPost, "/rest/api/3/search/jql", body, &result); err != nil {
		return nil, fmt.Errorf("searching worklog issues: %w", err)
	}

	return result.Issues, nil
}

// IssueWorklogs fetches one page of an issue's worklogs. The server may
// return entries outside [startedAfter, startedBefore]; callers must
// post-filter by date.
func (c *Client) IssueWorklogs(ctx context.Context, issueKey string, startAt int, startedAfter, startedBefore time.Time) (*WorklogPage, error) {
	params := url.Values{}
	params.Set("maxResults", strconv.Itoa(c.pageSize))
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("startedAfter", strconv.FormatInt(startedAfter.UnixMilli(), 10))
	params.Set("startedBefore", strconv.FormatInt(startedBefore.UnixMilli(), 10))

	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog?%s", url.PathEscape(issueKey), params.Encode())

	var page WorklogPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("fetching worklogs for %s: %w", issueKey, err)
	}

	return &page, nil
}

// doJSON sends a request with auth headers, rate limiting and retries, and
// decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if !c.HasCredentials() {
		return ErrMissingCredentials
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.SetBasicAuth(c.email, c.token)
		req.Header.Set("Accept", "application/json")
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if method != http.MethodGet && method != http.MethodHead {
			req.Header.Set("X-Atlassian-Token", "no-check")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network errors are retryable
			return fmt.Errorf("executing request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(raw),
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				c.waitRetryAfter(ctx, resp.Header.Get("Retry-After"))
				return apiErr
			}

			if !apiErr.Retryable() {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}

		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx))
	if err != nil {
		c.logger.Warn("Jira request failed", "method", method, "path", path, "error", err)
		return err
	}
	return nil
}

// waitRetryAfter honours a Retry-After header (seconds) before the next
// retry attempt, bounded by the request context.
func (c *Client) waitRetryAfter(ctx context.Context, header string) {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return
	}

	c.logger.Warn("Jira rate limit hit, cooling down", "retry_after_seconds", seconds)

	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-ctx.Done():
	}
}
