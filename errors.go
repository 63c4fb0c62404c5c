package firecrawl

import (
	"errors"
	"fmt"
)

// Client errors.
// These errors are returned by the client when a request cannot be built,
// sent, or interpreted.
//
// Design decision: We use a mix of sentinel errors and payload-carrying
// error types. Sentinels cover conditions with no variable detail
// (missing API key, missing job ID) so callers can use errors.Is().
// Transport and server-side failures carry context (URL, status code,
// server message) and are matched with errors.As().
var (
	// ErrNoAPIKey is returned by NewClient when no API key is resolvable.
	// The key must be passed explicitly or set in the FIRECRAWL_API_KEY
	// environment variable. The client never sends unauthenticated requests.
	ErrNoAPIKey = errors.New("no API key provided: pass one to NewClient or set " + APIKeyEnv)

	// ErrNoJobID is returned by Crawl and CreateCrawl when the job creation
	// response does not contain an "id" field. Without an ID there is no
	// job to poll, so the operation fails immediately.
	ErrNoJobID = errors.New("crawl job was not created: response contains no job id")
)

// TransportError reports a failed HTTP exchange with the Firecrawl API.
// It covers network-level failures (connection refused, timeout) and
// non-2xx responses. Transport failures are never retried by the client.
type TransportError struct {
	// Method is the HTTP method of the failed request.
	Method string

	// URL is the full request URL.
	URL string

	// StatusCode is the HTTP status code, or 0 when the request never
	// produced a response (e.g. connection error).
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("firecrawl: %s %s failed with status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("firecrawl: %s %s failed: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// JobError reports a failure signalled by the server itself: a scrape
// response with "success": false, or a crawl job that reached the
// "failed" or "stopped" status. The transport succeeded; the job did not.
type JobError struct {
	// Op is the operation that failed ("scrape" or "crawl").
	Op string

	// Status is the terminal job status for crawl failures
	// ("failed" or "stopped"). Empty for scrape failures.
	Status string

	// Message is the error text reported by the server, if any.
	Message string
}

// Error implements the error interface.
func (e *JobError) Error() string {
	switch {
	case e.Status != "" && e.Message != "":
		return fmt.Sprintf("firecrawl: %s job %s: %s", e.Op, e.Status, e.Message)
	case e.Status != "":
		return fmt.Sprintf("firecrawl: %s job %s", e.Op, e.Status)
	case e.Message != "":
		return fmt.Sprintf("firecrawl: %s failed: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("firecrawl: %s failed", e.Op)
	}
}
