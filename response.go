package firecrawl

import "strconv"

// Job statuses reported by the crawl status endpoint.
// Completed, failed, and stopped are terminal; any other value
// (e.g. "scraping", "queued") means the job is still running.
const (
	// StatusCompleted indicates the crawl finished and results are available.
	StatusCompleted = "completed"

	// StatusFailed indicates the crawl ended with a server-side error.
	StatusFailed = "failed"

	// StatusStopped indicates the crawl was cancelled before completion.
	StatusStopped = "stopped"
)

// Response is a decoded API response body. The API returns free-form JSON
// objects; only a handful of fields have meaning to the client ("success",
// "error", "id", "status", "data"), so we keep the body as a map and
// provide accessors rather than forcing a schema on it. Callers of
// CheckCrawlStatus and CancelCrawl receive the body unmodified.
type Response map[string]any

// OK reports whether the response body contains "success": true.
func (r Response) OK() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// ErrorMessage returns the "error" field as a string, or "" when absent.
func (r Response) ErrorMessage() string {
	msg, _ := r["error"].(string)
	return msg
}

// JobID returns the "id" field as a string, or "" when absent.
// Numeric IDs are formatted; the client treats IDs as opaque either way.
func (r Response) JobID() string {
	switch id := r["id"].(type) {
	case string:
		return id
	case float64:
		// encoding/json decodes JSON numbers into float64
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// Status returns the "status" field as a string, or "" when absent.
func (r Response) Status() string {
	status, _ := r["status"].(string)
	return status
}

// Data returns the "data" field verbatim, or nil when absent.
// The payload is opaque to the client; use DocumentsFromData for a
// typed view of scrape/crawl results.
func (r Response) Data() any {
	return r["data"]
}
