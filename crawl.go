package firecrawl

import (
	"context"
	"net/http"
	"time"
)

// Crawl starts a multi-page crawl job and blocks until it reaches a
// terminal state, returning the completed job's "data" payload. It is
// synchronous from the caller's perspective even though the job runs
// asynchronously on the server: control does not return until the job
// completes, fails, is stopped, or the context is cancelled.
//
// The body-merge semantics match Scrape. A non-positive pollInterval
// uses DefaultPollInterval. The polling loop itself is unbounded; cancel
// the context to bound the wait.
//
// Crawl is CreateCrawl followed by WaitCrawl. Use the two halves
// directly when you need the job ID (e.g. to cancel from elsewhere or
// to survive a restart).
func (c *Client) Crawl(ctx context.Context, url string, options map[string]any, pollInterval time.Duration) (any, error) {
	id, err := c.CreateCrawl(ctx, url, options)
	if err != nil {
		return nil, err
	}
	return c.WaitCrawl(ctx, id, pollInterval)
}

// CreateCrawl starts a crawl job and returns its server-assigned ID.
// The ID is opaque; the server is the sole source of truth for job
// state. If the creation response contains no "id" field, CreateCrawl
// returns ErrNoJobID.
func (c *Client) CreateCrawl(ctx context.Context, url string, options map[string]any) (string, error) {
	c.logger.InfoContext(ctx, "starting crawl job", "url", url)

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/crawl/", requestBody(url, options))
	if err != nil {
		return "", err
	}

	id := resp.JobID()
	if id == "" {
		c.logger.ErrorContext(ctx, "crawl job was not created", "url", url, "serverError", resp.ErrorMessage())
		return "", ErrNoJobID
	}

	c.logger.InfoContext(ctx, "crawl job created", "url", url, "jobID", id)
	return id, nil
}

// WaitCrawl polls a crawl job until it reaches a terminal state.
//
// The loop sleeps for pollInterval and then checks the status, in that
// order, so completion is never observed before at least one interval
// has elapsed. The status classification is three-way: "completed"
// returns the job's data, "failed" and "stopped" return a *JobError
// naming the status, and anything else means the job is still running
// and the loop repeats. There is no backoff, no jitter, and no attempt
// cap; the server is trusted to eventually report a terminal status, and
// the only early exits are a transport failure or context cancellation.
func (c *Client) WaitCrawl(ctx context.Context, jobID string, pollInterval time.Duration) (any, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	timer := time.NewTimer(pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		resp, err := c.doRequest(ctx, http.MethodGet, "/v1/crawl/"+jobID, nil)
		if err != nil {
			return nil, err
		}

		switch status := resp.Status(); status {
		case StatusCompleted:
			c.logger.InfoContext(ctx, "crawl job completed", "jobID", jobID)
			return resp.Data(), nil
		case StatusFailed, StatusStopped:
			jobErr := &JobError{Op: "crawl", Status: status, Message: resp.ErrorMessage()}
			c.logger.ErrorContext(ctx, "crawl job did not complete", "jobID", jobID, "status", status)
			return nil, jobErr
		default:
			c.logger.InfoContext(ctx, "crawl job still running", "jobID", jobID, "status", status)
			timer.Reset(pollInterval)
		}
	}
}

// CheckCrawlStatus fetches the current state of a crawl job and returns
// the decoded body unmodified. Unlike WaitCrawl it performs a single
// request and interprets nothing: no error is returned for a
// non-success body, so callers inspect the Response themselves. A
// transport failure still returns a *TransportError.
func (c *Client) CheckCrawlStatus(ctx context.Context, jobID string) (Response, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/crawl/"+jobID, nil)
}

// CancelCrawl asks the server to stop a running crawl job and returns
// the acknowledgement body unmodified. Like CheckCrawlStatus, the body
// is not interpreted; a transport failure returns a *TransportError.
// The job transitions to the "stopped" status server-side, which ends
// any concurrent WaitCrawl on the same ID with a *JobError.
func (c *Client) CancelCrawl(ctx context.Context, jobID string) (Response, error) {
	return c.doRequest(ctx, http.MethodDelete, "/v1/crawl/"+jobID, nil)
}
