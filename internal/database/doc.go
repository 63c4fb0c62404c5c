// Package database provides SQLite-based storage for the local crawl-job
// history. The Firecrawl server is the source of truth for job state; the
// client itself keeps nothing beyond the job ID, so once a crawl command
// exits the ID would be gone. This package records every job the CLI
// starts (ID, target URL, last observed status, timings) so that a later
// `firecrawl status`, `firecrawl cancel`, or `firecrawl jobs` invocation
// can find it again.
package database
