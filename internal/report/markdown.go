package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs results in GitHub Flavored Markdown.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation (tables, headings, code blocks) instead
// of hand-concatenated strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeDocuments(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with operation information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *Result) {
	title := "Firecrawl Scrape Report"
	if result.Kind == "crawl" {
		title = "Firecrawl Crawl Report"
	}
	md.H1(title)
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + result.Target + "`"},
		{"Documents", strconv.Itoa(len(result.Documents))},
	}
	if result.JobID != "" {
		rows = append(rows, []string{"Job ID", "`" + result.JobID + "`"})
	}
	if result.Elapsed > 0 {
		rows = append(rows, []string{"Elapsed", result.Elapsed.Round(10 * time.Millisecond).String()})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDocuments writes one section per returned document.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, result *Result) {
	for i, doc := range result.Documents {
		heading := "Document " + strconv.Itoa(i+1)
		if title := documentTitle(&doc); title != "" {
			heading = title
		}
		md.H2(heading)
		md.PlainText("")

		var rows [][]string
		if src := documentSourceURL(&doc); src != "" {
			rows = append(rows, []string{"Source", src})
		}
		if doc.Metadata != nil {
			if doc.Metadata.StatusCode != 0 {
				rows = append(rows, []string{"Status Code", strconv.Itoa(doc.Metadata.StatusCode)})
			}
			if doc.Metadata.Language != "" {
				rows = append(rows, []string{"Language", doc.Metadata.Language})
			}
			if doc.Metadata.Description != "" {
				rows = append(rows, []string{"Description", doc.Metadata.Description})
			}
		}
		if len(rows) > 0 {
			md.Table(markdown.TableSet{
				Header: []string{"Property", "Value"},
				Rows:   rows,
			})
			md.PlainText("")
		}

		if doc.Markdown != "" {
			md.PlainText(doc.Markdown)
			md.PlainText("")
		}

		if links := documentLinks(&doc); len(links) > 0 {
			md.H3("Links")
			md.BulletList(links...)
			md.PlainText("")
		}
	}
}
