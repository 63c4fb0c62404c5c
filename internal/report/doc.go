// Package report renders scrape and crawl results for the CLI.
// Three formats are supported: a human-readable summary for terminals
// (default), JSON for tool integration, and GitHub Flavored Markdown for
// documentation and sharing. All writers implement the same Writer
// interface so commands can pick a format without branching on output
// logic.
package report
