// Package page extracts summary information from the HTML payloads the
// Firecrawl API returns. The API's metadata block usually carries the
// page title and description, but it is optional and format-dependent;
// when a result only contains raw HTML, this package recovers the title,
// description, and outbound links for the human-readable report.
package page
