package page

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Summary contains the information extracted from an HTML document.
type Summary struct {
	// Title is the page title from the <title> tag.
	Title string

	// Description is the content of <meta name="description">.
	Description string

	// Links contains all discovered href URLs, resolved against the base
	// URL when one is provided, de-duplicated in document order.
	Links []string
}

// Parser extracts summary information from HTML content.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because it correctly handles the malformed HTML that scraped pages
// routinely contain and gives us a proper node tree to walk.
type Parser struct {
	// baseURL resolves relative links. May be nil, in which case links
	// are kept as written.
	baseURL *url.URL
}

// NewParser creates an HTML parser. baseURL may be empty; when set it is
// used to resolve relative links and must be a valid URL.
func NewParser(baseURL string) (*Parser, error) {
	if baseURL == "" {
		return &Parser{}, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse walks the HTML document and collects the summary.
// Parsing never fails on malformed markup; html.Parse repairs what it
// can, so an error here means the reader itself failed.
func (p *Parser) Parse(content io.Reader) (*Summary, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.processElement(n, summary, seen)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return summary, nil
}

// ParseString is a convenience wrapper over Parse for in-memory HTML.
func (p *Parser) ParseString(content string) (*Summary, error) {
	return p.Parse(strings.NewReader(content))
}

// processElement extracts data from a single element node.
func (p *Parser) processElement(n *html.Node, summary *Summary, seen map[string]bool) {
	switch n.Data {
	case "title":
		if summary.Title == "" && n.FirstChild != nil {
			summary.Title = strings.TrimSpace(n.FirstChild.Data)
		}
	case "meta":
		if strings.EqualFold(getAttr(n, "name"), "description") {
			if summary.Description == "" {
				summary.Description = strings.TrimSpace(getAttr(n, "content"))
			}
		}
	case "a":
		href := strings.TrimSpace(getAttr(n, "href"))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		resolved := p.resolveURL(href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		summary.Links = append(summary.Links, resolved)
	}
}

// resolveURL resolves href against the base URL.
// Without a base URL the href is returned as written; unparseable hrefs
// are dropped.
func (p *Parser) resolveURL(href string) string {
	if p.baseURL == nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(ref).String()
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
