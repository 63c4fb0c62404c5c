// Package firecrawl provides a Go client for the Firecrawl hosted
// web-scraping and crawling API.
//
// The client exposes four operations: a synchronous single-page scrape,
// a multi-page crawl that polls the server until the job reaches a
// terminal state, and single-shot status and cancel calls for crawl jobs.
// The server does all of the actual scraping; this package only manages
// the job lifecycle over the authenticated HTTP/JSON API.
//
// # Basic Usage
//
// Create a client with your API key (or set FIRECRAWL_API_KEY):
//
//	client, err := firecrawl.NewClient("fc-your-api-key", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	data, err := client.Scrape(ctx, "https://example.com", map[string]any{
//		"formats": []string{"markdown"},
//	})
//
// # Crawling
//
// Crawl starts a job and blocks until the server reports a terminal
// status, checking once per poll interval:
//
//	data, err := client.Crawl(ctx, "https://example.com", map[string]any{
//		"limit": 50,
//	}, 2*time.Second)
//
// The polling loop has no cap of its own; bound the wait by cancelling
// the context. CreateCrawl and WaitCrawl expose the two halves of the
// lifecycle for callers that need the job ID.
//
// # Error Handling
//
// All failures are distinguishable with errors.Is and errors.As:
//
//	data, err := client.Crawl(ctx, url, nil, 0)
//	if err != nil {
//		var jobErr *firecrawl.JobError
//		switch {
//		case errors.Is(err, firecrawl.ErrNoJobID):
//			// the server did not create a job
//		case errors.As(err, &jobErr):
//			// the server reported a failure (jobErr.Status, jobErr.Message)
//		default:
//			var tErr *firecrawl.TransportError
//			if errors.As(err, &tErr) {
//				// the HTTP call itself failed
//			}
//		}
//	}
package firecrawl
