// Package config provides configuration structures and utilities for the
// firecrawl CLI. It defines the options shared by the scrape and crawl
// commands, resolves API credentials from flags and the config file, and
// locates the XDG directories used for local state.
package config
