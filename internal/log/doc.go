// Package log provides logging for the firecrawl CLI with automatic
// redaction of API credentials, built on top of the standard slog package.
//
// Every request to the Firecrawl API carries a bearer token, and the
// client logs request context (method, URL, headers) on failure. The
// RedactingHandler guarantees that a key or token appearing in a log
// attribute never reaches the log output, even in verbose mode. Logs are
// routinely pasted into bug reports; the masking happens at the handler
// level so no call site can forget it.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("request sent",
//	    "authorization", "Bearer fc-secret", // masked in output
//	    "url", "https://api.firecrawl.dev/v1/scrape",
//	)
//
// The returned logger is a standard *slog.Logger and can be passed to
// any component that accepts one, including the firecrawl client library.
package log
