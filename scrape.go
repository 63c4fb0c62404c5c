package firecrawl

import (
	"context"
	"net/http"
)

// Scrape fetches a single page through the Firecrawl API and returns the
// "data" field of the response verbatim. The payload is opaque to the
// client; its shape depends on the requested formats (see
// DocumentsFromData for a typed view).
//
// The request body is {"url": url} with options merged on top; a
// caller-supplied "url" key in options overrides the positional argument.
// Options are forwarded unchanged, so any parameter the API understands
// (formats, onlyMainContent, waitFor, ...) can be passed without client
// changes.
//
// Failure modes: a *TransportError when the HTTP exchange fails, and a
// *JobError carrying the server's error text when the response reports
// "success": false. Neither is retried.
func (c *Client) Scrape(ctx context.Context, url string, options map[string]any) (any, error) {
	c.logger.InfoContext(ctx, "scraping url", "url", url)

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/scrape", requestBody(url, options))
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		jobErr := &JobError{Op: "scrape", Message: resp.ErrorMessage()}
		c.logger.ErrorContext(ctx, "scrape rejected by server", "url", url, "serverError", resp.ErrorMessage())
		return nil, jobErr
	}

	c.logger.InfoContext(ctx, "scrape succeeded", "url", url)
	return resp.Data(), nil
}
