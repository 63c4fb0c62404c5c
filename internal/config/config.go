package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the client library defaults where the two overlap so that
// CLI behavior and programmatic behavior stay aligned.
const (
	// DefaultTimeout bounds a single HTTP request to the API. Scrapes can
	// be slow on the server side (headless rendering, proxied fetches), so
	// this is generous.
	DefaultTimeout = 120 * time.Second

	// DefaultPollInterval is the delay between crawl status checks.
	// Two seconds matches the API client default and keeps the request
	// volume low for long-running jobs.
	DefaultPollInterval = 2 * time.Second

	// DefaultBatchSize is the number of concurrent scrapes when multiple
	// URLs are passed to the scrape command. Four keeps well below typical
	// per-key rate limits while still overlapping network latency.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "firecrawl"
)

// Config holds all configuration options for a single CLI invocation.
// It is populated from cobra flags with YAML config-file fallback and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// APIKey is the Firecrawl API key. When empty, the client library
	// falls back to the FIRECRAWL_API_KEY environment variable; a key must
	// come from somewhere or client construction fails.
	APIKey string

	// APIURL is the API endpoint. When empty, the client library falls
	// back to FIRECRAWL_API_URL and then the hosted default.
	APIURL string

	// Timeout is the HTTP timeout for each individual API request.
	// It does not bound the crawl polling loop; cancel the context (Ctrl-C)
	// to stop waiting on a job.
	Timeout time.Duration

	// PollInterval is the fixed delay between crawl status checks.
	PollInterval time.Duration

	// BatchSize is the number of concurrent scrapes when the scrape
	// command receives multiple URLs. Crawls are never parallelized; each
	// crawl is a single server-side job.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .firecrawl in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds values loaded from the YAML config file.
	// Populated by the loader; may be empty but never nil after loading.
	FileConfig *File

	// JSONOutput selects JSON result output. Mutually exclusive with
	// MarkdownOutput; when neither is set, a human-readable summary is
	// printed.
	JSONOutput bool

	// MarkdownOutput selects Markdown result output.
	MarkdownOutput bool

	// OutputFile is the result destination. When set, output is written
	// to this file instead of stdout; parent directories are created.
	OutputFile string

	// Targets is the list of URLs (scrape/crawl) or job IDs (status/cancel)
	// taken from positional arguments.
	Targets []string

	// DBDir is the directory for the SQLite job-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether crawl jobs are recorded in the local
	// history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases; commands override specific values from flags after creation.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		BatchSize:    DefaultBatchSize,
		FileConfig:   &File{},
	}
}

// XDGDataDir returns the XDG data directory for the CLI.
// On Linux: ~/.local/share/firecrawl
// On macOS: ~/Library/Application Support/firecrawl
// On Windows: %LOCALAPPDATA%\firecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the CLI.
// On Linux: ~/.config/firecrawl
// On macOS: ~/Library/Application Support/firecrawl
// On Windows: %APPDATA%\firecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing the first problem
// found; fixing one error often makes later ones irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONOutput && c.MarkdownOutput {
		return ErrConflictingOutputFormats
	}

	return nil
}

// ApplyFile fills unset credential fields from the loaded config file.
// Flag values always win; the file only supplies what the command line
// left empty. The environment fallback below both happens inside the
// client library.
func (c *Config) ApplyFile() {
	if c.FileConfig == nil {
		return
	}
	if c.APIKey == "" {
		c.APIKey = c.FileConfig.APIKey
	}
	if c.APIURL == "" {
		c.APIURL = c.FileConfig.APIURL
	}
}
