package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/firecrawl"
)

// previewLines is the number of markdown lines shown per document in the
// terminal summary.
const previewLines = 6

// maxListedLinks caps the links shown per document in the terminal summary.
const maxListedLinks = 10

// SimpleWriter outputs human-readable text results.
// This format is designed for terminal display.
//
// Design decision: Plain text with ASCII formatting rather than ANSI
// colors: it works in all terminals and pipes cleanly to files and other
// tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables per-document link listings and longer previews.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeDocuments(&sb, result)

	n, err := io.WriteString(w.output, sb.String())
	return n, err
}

// writeHeader writes the operation summary block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *Result) {
	title := "Scrape Result"
	if result.Kind == "crawl" {
		title = "Crawl Result"
	}

	fmt.Fprintf(sb, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(sb, "Target:    %s\n", result.Target)
	if result.JobID != "" {
		fmt.Fprintf(sb, "Job ID:    %s\n", result.JobID)
	}
	fmt.Fprintf(sb, "Documents: %d\n", len(result.Documents))
	if result.Elapsed > 0 {
		fmt.Fprintf(sb, "Elapsed:   %s\n", result.Elapsed.Round(10*time.Millisecond))
	}
	sb.WriteString("\n")
}

// writeDocuments writes one block per returned document.
func (w *SimpleWriter) writeDocuments(sb *strings.Builder, result *Result) {
	for i, doc := range result.Documents {
		fmt.Fprintf(sb, "--- Document %d/%d ---\n", i+1, len(result.Documents))

		if title := documentTitle(&doc); title != "" {
			fmt.Fprintf(sb, "Title:  %s\n", title)
		}
		if src := documentSourceURL(&doc); src != "" {
			fmt.Fprintf(sb, "Source: %s\n", src)
		}
		if doc.Metadata != nil && doc.Metadata.StatusCode != 0 {
			fmt.Fprintf(sb, "Status: %d\n", doc.Metadata.StatusCode)
		}

		if preview := contentPreview(&doc, previewLines); preview != "" {
			sb.WriteString("\n")
			sb.WriteString(preview)
			sb.WriteString("\n")
		}

		if w.verbose {
			w.writeLinks(sb, &doc)
		}
		sb.WriteString("\n")
	}
}

// writeLinks lists the document's outbound links, capped for readability.
func (w *SimpleWriter) writeLinks(sb *strings.Builder, doc *firecrawl.Document) {
	links := documentLinks(doc)
	if len(links) == 0 {
		return
	}

	sb.WriteString("\nLinks:\n")
	shown := links
	if len(shown) > maxListedLinks {
		shown = shown[:maxListedLinks]
	}
	for _, link := range shown {
		fmt.Fprintf(sb, "  - %s\n", link)
	}
	if len(links) > maxListedLinks {
		fmt.Fprintf(sb, "  ... and %d more\n", len(links)-maxListedLinks)
	}
}
