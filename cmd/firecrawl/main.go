// Package main provides the entry point for the firecrawl CLI.
//
// firecrawl turns web pages into clean, LLM-ready data through the
// Firecrawl API. It scrapes single pages, crawls whole sites, and keeps
// a local history of the jobs it started.
//
// Usage:
//
//	firecrawl scrape <url>
//	firecrawl crawl <url>
//	firecrawl status <job-id>
//
// See --help for all available options.
package main

// main is the entry point for the firecrawl CLI.
func main() {
	Execute()
}
