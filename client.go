package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Environment variables and default endpoint.
// These values are fixed for drop-in compatibility with other Firecrawl
// clients: the key variable has no default (a missing key is an error),
// and the URL variable falls back to the hosted service.
const (
	// APIKeyEnv is the environment variable consulted when NewClient is
	// called without an explicit API key.
	APIKeyEnv = "FIRECRAWL_API_KEY"

	// APIURLEnv is the environment variable consulted when NewClient is
	// called without an explicit API URL.
	APIURLEnv = "FIRECRAWL_API_URL"

	// DefaultAPIURL is the hosted Firecrawl endpoint, used when neither
	// an explicit URL nor APIURLEnv provides one.
	DefaultAPIURL = "https://api.firecrawl.dev"

	// DefaultPollInterval is the delay between crawl status checks when
	// the caller passes a non-positive interval to Crawl or WaitCrawl.
	DefaultPollInterval = 2 * time.Second

	// defaultHTTPTimeout bounds a single HTTP exchange. Scrapes can be
	// slow on the server side (headless rendering, large pages), so this
	// is generous. It does not bound the crawl polling loop.
	defaultHTTPTimeout = 120 * time.Second

	// defaultUserAgent identifies this client in HTTP requests.
	defaultUserAgent = "firecrawl-go/1.0 (+https://github.com/nao1215/firecrawl)"

	// maxResponseBody limits how much of a response body is read.
	// Crawl results can contain many rendered pages, so the limit is
	// large; it exists only to keep a misbehaving server from exhausting
	// memory.
	maxResponseBody = 100 * 1024 * 1024 // 100MB
)

// Client is an authenticated client for the Firecrawl API.
// The API key, endpoint, and HTTP client are fixed at construction and
// never change, so a Client is safe for concurrent use. The client
// issues requests serially; it never retries and never runs jobs in
// parallel on the caller's behalf.
type Client struct {
	// apiKey is the bearer token sent with every request.
	apiKey string

	// apiURL is the API endpoint with any trailing slash removed.
	apiURL string

	// userAgent is the User-Agent header value.
	userAgent string

	// httpClient performs all HTTP exchanges. Reused across calls for
	// connection pooling.
	httpClient *http.Client

	// logger receives info-level lifecycle messages and error-level
	// failure messages. Never nil; defaults to a discard logger.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
// Use this to customize timeouts, proxies, or TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for lifecycle and failure messages.
// A nil logger restores the default no-op logger, so operations
// proceed silently.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a Firecrawl API client.
//
// The API key resolves from the apiKey argument, then from the
// FIRECRAWL_API_KEY environment variable. If neither yields a value,
// NewClient returns ErrNoAPIKey; the client never proceeds
// unauthenticated. The endpoint resolves from the apiURL argument, then
// FIRECRAWL_API_URL, then DefaultAPIURL.
//
// Design decision: We resolve the environment exactly once here rather
// than on each request. Configuration is process-global state; reading
// it repeatedly would let the client's behavior change mid-flight.
func NewClient(apiKey, apiURL string, opts ...Option) (*Client, error) {
	c := &Client{
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	key := apiKey
	if key == "" {
		key = os.Getenv(APIKeyEnv)
	}
	if key == "" {
		c.logger.Error("no API key provided", "env", APIKeyEnv)
		return nil, ErrNoAPIKey
	}
	c.apiKey = key

	endpoint := apiURL
	if endpoint == "" {
		endpoint = os.Getenv(APIURLEnv)
	}
	if endpoint == "" {
		endpoint = DefaultAPIURL
	}
	c.apiURL = strings.TrimRight(endpoint, "/")

	if c.httpClient == nil {
		c.httpClient = newHTTPClient()
	}

	return c, nil
}

// APIURL returns the resolved API endpoint.
func (c *Client) APIURL() string {
	return c.apiURL
}

// newHTTPClient builds the default HTTP client.
// Pool sizes are small: the client talks to a single host and issues
// requests serially, so a handful of idle connections is enough.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// requestBody builds the JSON body for scrape and crawl creation.
// The positional URL is set first and options are merged on top, so a
// caller-supplied "url" key inside options overrides the positional
// argument. This last-write-wins precedence is part of the contract.
func requestBody(url string, options map[string]any) map[string]any {
	body := make(map[string]any, len(options)+1)
	body["url"] = url
	for k, v := range options {
		body[k] = v
	}
	return body
}

// doRequest performs one authenticated HTTP exchange and decodes the
// JSON response body. Every failure mode (request construction, network,
// non-2xx status, undecodable body) is returned as a *TransportError and
// logged at error level exactly once. There are no retries.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (Response, error) {
	url := c.apiURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, c.transportError(ctx, method, url, 0, fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, c.transportError(ctx, method, url, 0, err)
	}

	// Every request carries the bearer token; no request is sent
	// unauthenticated.
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, method, url, 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is not actionable

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, c.transportError(ctx, method, url, resp.StatusCode, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.transportError(ctx, method, url, resp.StatusCode, fmt.Errorf("unexpected status: %s", statusDetail(resp.StatusCode, raw)))
	}

	var decoded Response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, c.transportError(ctx, method, url, resp.StatusCode, fmt.Errorf("decode response body: %w", err))
	}

	return decoded, nil
}

// transportError logs and builds a *TransportError.
// Logging happens here so every transport failure produces exactly one
// error-level record, regardless of which operation triggered it.
func (c *Client) transportError(ctx context.Context, method, url string, statusCode int, err error) *TransportError {
	c.logger.ErrorContext(ctx, "request failed",
		"method", method,
		"url", url,
		"statusCode", statusCode,
		"err", err,
	)
	return &TransportError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// statusDetail summarizes a non-2xx response for the error message.
// When the body carries a JSON "error" field we surface it; otherwise we
// include a short excerpt so the failure is debuggable from the error
// alone.
func statusDetail(statusCode int, raw []byte) string {
	var body Response
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := body.ErrorMessage(); msg != "" {
			return fmt.Sprintf("%s: %s", http.StatusText(statusCode), msg)
		}
	}

	excerpt := strings.TrimSpace(string(raw))
	const maxExcerpt = 200
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	if excerpt == "" {
		return http.StatusText(statusCode)
	}
	return fmt.Sprintf("%s: %s", http.StatusText(statusCode), excerpt)
}
