package report

import (
	"io"
	"strings"
	"time"

	"github.com/nao1215/firecrawl"
	"github.com/nao1215/firecrawl/internal/page"
)

// Result is one rendered operation: a single scrape or a completed
// crawl. It pairs the raw API payload with its typed document view so
// each writer can pick the representation it needs.
type Result struct {
	// Kind is "scrape" or "crawl".
	Kind string

	// Target is the URL the operation was started with.
	Target string

	// JobID is the server-assigned job ID. Empty for scrapes.
	JobID string

	// Elapsed is the wall-clock duration of the operation, including
	// polling time for crawls.
	Elapsed time.Duration

	// Data is the raw "data" payload exactly as the API returned it.
	Data any

	// Documents is the typed view of Data. Empty when the payload does
	// not decode as documents; writers fall back to Data in that case.
	Documents []firecrawl.Document
}

// NewResult builds a Result from a raw API payload.
// Document decoding is best-effort: a payload that doesn't match the
// document schema still renders through the JSON writer, so the decode
// error is deliberately not surfaced.
func NewResult(kind, target, jobID string, data any, elapsed time.Duration) *Result {
	docs, err := firecrawl.DocumentsFromData(data)
	if err != nil {
		docs = nil
	}

	return &Result{
		Kind:      kind,
		Target:    target,
		JobID:     jobID,
		Elapsed:   elapsed,
		Data:      data,
		Documents: docs,
	}
}

// Writer defines the interface for result output.
// Implementations render results in various formats.
//
// Design decision: We use an interface so different formats and
// destinations (stdout, files) share the same API in the commands.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *Result) (int, error)
}

// baseWriter provides common functionality for result writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// documentTitle returns the best available title for a document:
// the metadata title when present, otherwise a title recovered from the
// HTML payload, otherwise "".
func documentTitle(doc *firecrawl.Document) string {
	if doc.Metadata != nil && doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}

	htmlContent := doc.HTML
	if htmlContent == "" {
		htmlContent = doc.RawHTML
	}
	if htmlContent == "" {
		return ""
	}

	parser, err := page.NewParser(documentSourceURL(doc))
	if err != nil {
		return ""
	}
	summary, err := parser.ParseString(htmlContent)
	if err != nil {
		return ""
	}
	return summary.Title
}

// documentSourceURL returns the metadata source URL, or "".
func documentSourceURL(doc *firecrawl.Document) string {
	if doc.Metadata != nil {
		return doc.Metadata.SourceURL
	}
	return ""
}

// documentLinks returns the document's link list, recovering it from the
// HTML payload when the links format was not requested.
func documentLinks(doc *firecrawl.Document) []string {
	if len(doc.Links) > 0 {
		return doc.Links
	}

	htmlContent := doc.HTML
	if htmlContent == "" {
		htmlContent = doc.RawHTML
	}
	if htmlContent == "" {
		return nil
	}

	parser, err := page.NewParser(documentSourceURL(doc))
	if err != nil {
		return nil
	}
	summary, err := parser.ParseString(htmlContent)
	if err != nil {
		return nil
	}
	return summary.Links
}

// contentPreview returns the first lines of the document's markdown
// content, capped for terminal display.
func contentPreview(doc *firecrawl.Document, maxLines int) string {
	if doc.Markdown == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(doc.Markdown), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
