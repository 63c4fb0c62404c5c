package config

// ScrapeDefaults holds default scrape parameters applied when the
// corresponding flags are not given. These map directly onto API request
// options and are forwarded without interpretation.
type ScrapeDefaults struct {
	// Formats are the default result formats (e.g. "markdown", "html",
	// "links", "screenshot").
	Formats []string `yaml:"formats,omitempty"`

	// OnlyMainContent strips navigation, headers, and footers server-side.
	OnlyMainContent bool `yaml:"onlyMainContent,omitempty"`

	// WaitFor is the milliseconds the server waits for dynamic content
	// before capturing the page. Zero means no extra wait.
	WaitFor int `yaml:"waitFor,omitempty"`
}

// File represents the structure of the .firecrawl configuration file.
// Everything in it is optional; flags override file values, and the API
// key still falls back to the environment when both are absent.
type File struct {
	// APIKey is the Firecrawl API key. Storing it here keeps it out of
	// shell history; the file should be mode 0600.
	APIKey string `yaml:"api_key,omitempty"`

	// APIURL is the API endpoint, for self-hosted deployments.
	APIURL string `yaml:"api_url,omitempty"`

	// Scrape holds default scrape parameters.
	Scrape ScrapeDefaults `yaml:"scrape,omitempty"`
}
