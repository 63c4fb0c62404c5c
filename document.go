package firecrawl

import (
	"encoding/json"
	"fmt"
)

// Document is a typed view of one scraped page. Scrape returns a single
// document; a completed crawl returns a list of them. Fields are
// populated according to the formats requested in the options; absent
// formats stay zero.
type Document struct {
	Markdown   string    `json:"markdown,omitempty"`
	HTML       string    `json:"html,omitempty"`
	RawHTML    string    `json:"rawHtml,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
	Links      []string  `json:"links,omitempty"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Metadata describes the page a Document was rendered from.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	SourceURL   string `json:"sourceURL,omitempty"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DocumentsFromData converts the opaque "data" payload returned by
// Scrape, Crawl, or CheckCrawlStatus into typed documents. A single
// object becomes a one-element slice; a JSON array becomes one element
// per entry. Unknown fields are dropped, so this stays lenient as the
// API grows.
//
// Design decision: The client API returns data verbatim and keeps this
// conversion separate, so callers that only forward the payload never
// pay for (or depend on) the document schema.
func DocumentsFromData(data any) ([]Document, error) {
	if data == nil {
		return nil, nil
	}

	// Round-trip through JSON: the payload arrives as map[string]any or
	// []any, which matches what json.Marshal expects.
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data payload: %w", err)
	}

	switch data.(type) {
	case []any:
		var docs []Document
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, fmt.Errorf("decode document list: %w", err)
		}
		return docs, nil
	default:
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return []Document{doc}, nil
	}
}
