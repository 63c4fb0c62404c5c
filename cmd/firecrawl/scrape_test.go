package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/firecrawl/internal/config"
	"github.com/nao1215/firecrawl/internal/report"
)

// TestNewScrapeCmd tests the scrape command creation.
func TestNewScrapeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScrapeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scrape [url]..." {
			t.Errorf("expected use 'scrape [url]...', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has formats flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("formats")
		if flag == nil {
			t.Fatal("expected formats flag")
		}
		if flag.Shorthand != "F" {
			t.Errorf("expected shorthand 'F', got %q", flag.Shorthand)
		}
	})

	t.Run("has only-main-content flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("only-main-content") == nil {
			t.Fatal("expected only-main-content flag")
		}
	})

	t.Run("has wait-for flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("wait-for") == nil {
			t.Fatal("expected wait-for flag")
		}
	})

	t.Run("has batch flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("batch")
		if flag == nil {
			t.Fatal("expected batch flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has api-key flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("api-key")
		if flag == nil {
			t.Fatal("expected api-key flag")
		}
		if flag.Shorthand != "k" {
			t.Errorf("expected shorthand 'k', got %q", flag.Shorthand)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("does not have db-dir flag (uses XDG)", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") != nil {
			t.Error("db-dir flag should not exist (always uses XDG data directory)")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewScrapeCmd()
		if getVerboseFlag(cmd) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		scrapeCmd, _, err := root.Find([]string{"scrape"})
		if err != nil {
			t.Fatalf("failed to find scrape command: %v", err)
		}

		if !getVerboseFlag(scrapeCmd) {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewScrapeCmd()
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com" {
			t.Errorf("expected targets [https://example.com], got %v", cfg.Targets)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %s", cfg.Timeout)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir == "" {
			t.Error("expected DBDir to be set")
		}
	})

	t.Run("builds config with api credentials", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("api-key", "fc-test-key")
		_ = cmd.Flags().Set("api-url", "https://firecrawl.internal")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.APIKey != "fc-test-key" {
			t.Errorf("expected APIKey 'fc-test-key', got %q", cfg.APIKey)
		}
		if cfg.APIURL != "https://firecrawl.internal" {
			t.Errorf("expected APIURL 'https://firecrawl.internal', got %q", cfg.APIURL)
		}
	})

	t.Run("builds config with custom timeout", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("timeout", "30s")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %s", cfg.Timeout)
		}
	})

	t.Run("builds config with JSON flag", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("json", "true")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.JSONOutput {
			t.Error("expected JSONOutput to be true")
		}
	})

	t.Run("builds config with multiple targets", func(t *testing.T) {
		cmd := NewScrapeCmd()
		cfg, err := buildConfig(cmd, []string{"https://a.example", "https://b.example", "https://c.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 3 {
			t.Errorf("expected 3 targets, got %d", len(cfg.Targets))
		}
	})

	t.Run("loads credentials from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "firecrawl.yaml")

		content := []byte(`
api_key: fc-file-key
scrape:
  formats: [markdown, links]
  onlyMainContent: true
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.APIKey != "fc-file-key" {
			t.Errorf("expected APIKey from file, got %q", cfg.APIKey)
		}
		if len(cfg.FileConfig.Scrape.Formats) != 2 {
			t.Errorf("expected 2 default formats, got %v", cfg.FileConfig.Scrape.Formats)
		}
	})

	t.Run("flag overrides config file credential", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "firecrawl.yaml")

		content := []byte("api_key: fc-file-key\n")
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("api-key", "fc-flag-key")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.APIKey != "fc-flag-key" {
			t.Errorf("expected flag to win, got %q", cfg.APIKey)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")

		if err := os.WriteFile(configPath, []byte(`{invalid yaml`), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", configPath)
		_, err := buildConfig(cmd, []string{"https://example.com"})
		if err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := buildConfig(cmd, []string{"https://example.com"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}

// TestBuildScrapeOptions tests scrape option assembly from flags and
// config-file defaults.
func TestBuildScrapeOptions(t *testing.T) {
	t.Run("uses flag defaults", func(t *testing.T) {
		cmd := NewScrapeCmd()
		cfg := config.NewConfig()

		options, err := buildScrapeOptions(cmd, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		formats, ok := options["formats"].([]string)
		if !ok || len(formats) != 1 || formats[0] != "markdown" {
			t.Errorf("expected default formats [markdown], got %v", options["formats"])
		}
		if _, ok := options["onlyMainContent"]; ok {
			t.Error("expected onlyMainContent to be omitted by default")
		}
		if _, ok := options["waitFor"]; ok {
			t.Error("expected waitFor to be omitted by default")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("formats", "html,links")
		_ = cmd.Flags().Set("only-main-content", "true")
		_ = cmd.Flags().Set("wait-for", "500")
		cfg := config.NewConfig()

		options, err := buildScrapeOptions(cmd, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		formats, ok := options["formats"].([]string)
		if !ok || len(formats) != 2 {
			t.Fatalf("expected 2 formats, got %v", options["formats"])
		}
		if options["onlyMainContent"] != true {
			t.Error("expected onlyMainContent to be set")
		}
		if options["waitFor"] != 500 {
			t.Errorf("expected waitFor 500, got %v", options["waitFor"])
		}
	})

	t.Run("config file supplies unset flags", func(t *testing.T) {
		cmd := NewScrapeCmd()
		cfg := config.NewConfig()
		cfg.FileConfig.Scrape = config.ScrapeDefaults{
			Formats:         []string{"rawHtml"},
			OnlyMainContent: true,
			WaitFor:         250,
		}

		options, err := buildScrapeOptions(cmd, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		formats, ok := options["formats"].([]string)
		if !ok || len(formats) != 1 || formats[0] != "rawHtml" {
			t.Errorf("expected file formats [rawHtml], got %v", options["formats"])
		}
		if options["onlyMainContent"] != true {
			t.Error("expected onlyMainContent from file defaults")
		}
		if options["waitFor"] != 250 {
			t.Errorf("expected waitFor 250 from file defaults, got %v", options["waitFor"])
		}
	})

	t.Run("changed flag beats config file", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("formats", "markdown")
		cfg := config.NewConfig()
		cfg.FileConfig.Scrape = config.ScrapeDefaults{Formats: []string{"rawHtml"}}

		options, err := buildScrapeOptions(cmd, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		formats, ok := options["formats"].([]string)
		if !ok || len(formats) != 1 || formats[0] != "markdown" {
			t.Errorf("expected flag formats [markdown], got %v", options["formats"])
		}
	})
}

// TestOutputResult tests result output destinations and formats.
func TestOutputResult(t *testing.T) {
	t.Run("writes simple output to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputFile := filepath.Join(tmpDir, "result.txt")

		cfg := config.NewConfig()
		cfg.OutputFile = outputFile

		result := report.NewResult("scrape", "https://example.com", "",
			map[string]any{"markdown": "# Hello"}, time.Second)

		if err := outputResult(cfg, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputFile)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if !strings.Contains(string(content), "Scrape Result") {
			t.Error("expected simple format header in output file")
		}
	})

	t.Run("writes JSON output to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputFile := filepath.Join(tmpDir, "result.json")

		cfg := config.NewConfig()
		cfg.OutputFile = outputFile
		cfg.JSONOutput = true

		result := report.NewResult("scrape", "https://example.com", "",
			map[string]any{"markdown": "# Hello"}, time.Second)

		if err := outputResult(cfg, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputFile)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if !bytes.Contains(content, []byte(`"markdown"`)) {
			t.Error("expected JSON payload in output file")
		}
	})

	t.Run("writes markdown output to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputFile := filepath.Join(tmpDir, "result.md")

		cfg := config.NewConfig()
		cfg.OutputFile = outputFile
		cfg.MarkdownOutput = true

		result := report.NewResult("crawl", "https://example.com", "job-1",
			[]any{map[string]any{"markdown": "# Hello"}}, time.Second)

		if err := outputResult(cfg, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputFile)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if !strings.Contains(string(content), "# Firecrawl Crawl Report") {
			t.Error("expected markdown report header in output file")
		}
	})

	t.Run("creates parent directories for output file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputFile := filepath.Join(tmpDir, "nested", "deep", "result.txt")

		cfg := config.NewConfig()
		cfg.OutputFile = outputFile

		result := report.NewResult("scrape", "https://example.com", "",
			map[string]any{"markdown": "# Hello"}, time.Second)

		if err := outputResult(cfg, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputFile); os.IsNotExist(err) {
			t.Error("expected output file in nested directory")
		}
	})
}
