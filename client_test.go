package firecrawl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"
)

// countingHandler is an slog.Handler that counts records per level.
// Tests use it to assert how many error-level log calls an operation
// produced.
type countingHandler struct {
	mu     sync.Mutex
	counts map[slog.Level]int
}

func newCountingHandler() *countingHandler {
	return &countingHandler{counts: make(map[slog.Level]int)}
}

func (h *countingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *countingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[r.Level]++
	return nil
}

func (h *countingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *countingHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *countingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[level]
}

// TestNewClient tests client construction and credential resolution.
func TestNewClient(t *testing.T) {
	t.Run("explicit key creates client", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("fc-test-key", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client == nil {
			t.Fatal("expected non-nil client")
		}
		if client.APIURL() != DefaultAPIURL {
			t.Errorf("APIURL() = %q, expected %q", client.APIURL(), DefaultAPIURL)
		}
	})

	t.Run("missing key returns ErrNoAPIKey", func(t *testing.T) {
		// Not parallel: clears the environment for this process.
		t.Setenv(APIKeyEnv, "")

		_, err := NewClient("", "")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("missing key fails for any base URL", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		for _, apiURL := range []string{"", "https://self-hosted.example.com", "http://localhost:3002"} {
			if _, err := NewClient("", apiURL); !errors.Is(err, ErrNoAPIKey) {
				t.Errorf("NewClient(%q) = %v, expected ErrNoAPIKey", apiURL, err)
			}
		}
	})

	t.Run("key falls back to environment", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "fc-env-key")

		client, err := NewClient("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.apiKey != "fc-env-key" {
			t.Errorf("apiKey = %q, expected %q", client.apiKey, "fc-env-key")
		}
	})

	t.Run("explicit key wins over environment", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "fc-env-key")

		client, err := NewClient("fc-explicit-key", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.apiKey != "fc-explicit-key" {
			t.Errorf("apiKey = %q, expected %q", client.apiKey, "fc-explicit-key")
		}
	})

	t.Run("URL falls back to environment then default", func(t *testing.T) {
		t.Setenv(APIURLEnv, "https://self-hosted.example.com")

		client, err := NewClient("fc-test-key", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.APIURL() != "https://self-hosted.example.com" {
			t.Errorf("APIURL() = %q, expected env value", client.APIURL())
		}
	})

	t.Run("trailing slash is trimmed from URL", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("fc-test-key", "https://api.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.APIURL() != "https://api.example.com" {
			t.Errorf("APIURL() = %q, expected trimmed URL", client.APIURL())
		}
	})

	t.Run("construction failure is logged at error level", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		handler := newCountingHandler()
		_, err := NewClient("", "", WithLogger(slog.New(handler)))
		if !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("expected ErrNoAPIKey, got %v", err)
		}
		if got := handler.count(slog.LevelError); got != 1 {
			t.Errorf("expected 1 error log, got %d", got)
		}
	})

	t.Run("nil logger option keeps operations silent", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("fc-test-key", "", WithLogger(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.logger == nil {
			t.Fatal("expected non-nil no-op logger")
		}
	})

	t.Run("custom HTTP client is used", func(t *testing.T) {
		t.Parallel()

		hc := &http.Client{Timeout: 5 * time.Second}
		client, err := NewClient("fc-test-key", "", WithHTTPClient(hc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.httpClient != hc {
			t.Error("expected injected HTTP client to be used")
		}
	})

	t.Run("custom user agent is stored", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("fc-test-key", "", WithUserAgent("myapp/2.0"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.userAgent != "myapp/2.0" {
			t.Errorf("userAgent = %q, expected %q", client.userAgent, "myapp/2.0")
		}
	})
}

// TestRequestBody tests the url/options merge precedence.
func TestRequestBody(t *testing.T) {
	t.Parallel()

	t.Run("positional url is set when options omit it", func(t *testing.T) {
		t.Parallel()

		body := requestBody("https://a.example.com", map[string]any{"limit": 5})
		if body["url"] != "https://a.example.com" {
			t.Errorf("url = %v, expected positional argument", body["url"])
		}
		if body["limit"] != 5 {
			t.Errorf("limit = %v, expected 5", body["limit"])
		}
	})

	t.Run("options url overrides positional argument", func(t *testing.T) {
		t.Parallel()

		body := requestBody("https://a.example.com", map[string]any{"url": "https://b.example.com"})
		if body["url"] != "https://b.example.com" {
			t.Errorf("url = %v, expected options value to win", body["url"])
		}
	})

	t.Run("nil options produce url-only body", func(t *testing.T) {
		t.Parallel()

		body := requestBody("https://a.example.com", nil)
		if len(body) != 1 || body["url"] != "https://a.example.com" {
			t.Errorf("body = %v, expected url-only map", body)
		}
	})
}
