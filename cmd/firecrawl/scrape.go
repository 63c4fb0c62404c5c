package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/firecrawl"
	"github.com/nao1215/firecrawl/internal/config"
	"github.com/nao1215/firecrawl/internal/database"
	"github.com/nao1215/firecrawl/internal/log"
	"github.com/nao1215/firecrawl/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]...",
		Short: "Scrape one or more web pages",
		Long: `Scrape fetches web pages through the Firecrawl API and returns their
content in the requested formats.

The server handles rendering, proxying, and content extraction; the CLI
sends one request per URL and prints the result.

Examples:
  # Scrape a single page as markdown
  firecrawl scrape https://example.com

  # Scrape several pages concurrently
  firecrawl scrape https://example.com https://example.org

  # Request HTML and links in addition to markdown
  firecrawl scrape --formats markdown,html,links https://example.com

  # Strip navigation and boilerplate server-side
  firecrawl scrape --only-main-content https://example.com

  # Output raw JSON
  firecrawl scrape --json https://example.com

Configuration file (.firecrawl) example:
  api_key: "fc-your-key"
  scrape:
    formats: [markdown, links]
    onlyMainContent: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	// Scrape behavior flags
	cmd.Flags().StringSliceP("formats", "F", []string{"markdown"},
		"Result formats: markdown, html, rawHtml, links, screenshot")
	cmd.Flags().Bool("only-main-content", false,
		"Strip navigation, headers, and footers server-side")
	cmd.Flags().Int("wait-for", 0,
		"Milliseconds the server waits for dynamic content before capturing")

	// Batch scraping flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scrapes")

	addClientFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	options, err := buildScrapeOptions(cmd, cfg)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		return err
	}

	db, err := openJobDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // read-mostly CLI database

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScrape(ctx, cfg, client, db, options, logger)
	}
	return runSequentialScrape(ctx, cfg, client, db, options, logger)
}

// runSequentialScrape scrapes targets one at a time.
func runSequentialScrape(ctx context.Context, cfg *config.Config, client *firecrawl.Client, db *database.JobDB, options map[string]any, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := scrapeOne(ctx, cfg, client, db, options, logger, target); err != nil {
			logger.Error("scrape failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scrape error for %s: %v\n", target, err)
		}
	}
	return nil
}

// runBatchScrape scrapes multiple targets concurrently.
// Failures are reported per target and do not stop the remaining scrapes;
// context cancellation does.
func runBatchScrape(ctx context.Context, cfg *config.Config, client *firecrawl.Client, db *database.JobDB, options map[string]any, logger *slog.Logger) error {
	fmt.Printf("Scraping %d targets (concurrency: %d)...\n\n", len(cfg.Targets), cfg.BatchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BatchSize)

	// Output and database writes are serialized; only the HTTP requests
	// overlap.
	var mu sync.Mutex
	for _, target := range cfg.Targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			data, err := client.Scrape(ctx, target, options)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("scrape failed", "target", target, "error", err)
				fmt.Fprintf(os.Stderr, "Scrape error for %s: %v\n", target, err)
				recordScrape(ctx, db, logger, target, 0, err)
				return nil
			}

			result := report.NewResult(database.KindScrape, target, "", data, elapsed)
			recordScrape(ctx, db, logger, target, len(result.Documents), nil)
			if err := outputResult(cfg, result); err != nil {
				logger.Error("report failed", "target", target, "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// scrapeOne scrapes a single target and writes its result.
func scrapeOne(ctx context.Context, cfg *config.Config, client *firecrawl.Client, db *database.JobDB, options map[string]any, logger *slog.Logger, target string) error {
	start := time.Now()
	data, err := client.Scrape(ctx, target, options)
	elapsed := time.Since(start)
	if err != nil {
		recordScrape(ctx, db, logger, target, 0, err)
		return err
	}

	result := report.NewResult(database.KindScrape, target, "", data, elapsed)
	recordScrape(ctx, db, logger, target, len(result.Documents), nil)
	return outputResult(cfg, result)
}

// recordScrape writes a scrape outcome to the local history.
// History is best effort: a database failure is logged, never fatal.
func recordScrape(ctx context.Context, db *database.JobDB, logger *slog.Logger, target string, pages int, scrapeErr error) {
	if db == nil {
		return
	}

	record := &database.JobRecord{
		URL:    target,
		Kind:   database.KindScrape,
		Status: firecrawl.StatusCompleted,
		Pages:  pages,
	}
	if scrapeErr != nil {
		record.Status = firecrawl.StatusFailed
		record.Error = scrapeErr.Error()
	}

	if _, err := db.InsertJob(ctx, record); err != nil {
		logger.Error("failed to record scrape in history", "target", target, "error", err)
	}
}

// buildScrapeOptions assembles the scrape request options from flags,
// falling back to config-file defaults for flags the user did not set.
func buildScrapeOptions(cmd *cobra.Command, cfg *config.Config) (map[string]any, error) {
	defaults := cfg.FileConfig.Scrape

	formats, err := cmd.Flags().GetStringSlice("formats")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("formats") && len(defaults.Formats) > 0 {
		formats = defaults.Formats
	}

	onlyMainContent, err := cmd.Flags().GetBool("only-main-content")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("only-main-content") {
		onlyMainContent = defaults.OnlyMainContent
	}

	waitFor, err := cmd.Flags().GetInt("wait-for")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("wait-for") {
		waitFor = defaults.WaitFor
	}

	options := map[string]any{
		"formats": formats,
	}
	if onlyMainContent {
		options["onlyMainContent"] = true
	}
	if waitFor > 0 {
		options["waitFor"] = waitFor
	}
	return options, nil
}

// addClientFlags registers the flags shared by every command that talks
// to the API.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("api-key", "k", "",
		"Firecrawl API key (default: config file, then FIRECRAWL_API_KEY)")
	cmd.Flags().StringP("api-url", "u", "",
		"API endpoint for self-hosted deployments (default: config file, then FIRECRAWL_API_URL)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each API request")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .firecrawl in current or home directory)")
}

// addOutputFlags registers the result output flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output raw JSON result (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write result to specified file path (creates directories if needed)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the shared cobra command flags,
// including the output flags registered by addOutputFlags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildJobConfig(cmd, args)
	if err != nil {
		return nil, err
	}

	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownOutput, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildJobConfig creates a Config from the client flags alone. Used by
// commands that take a job ID and print raw JSON, with no output flags.
func buildJobConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}

	cfg.APIURL, err = cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load defaults from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}
	cfg.ApplyFile()

	cfg.Verbose = getVerboseFlag(cmd)

	// Always record jobs in the XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (URLs or job IDs)
	cfg.Targets = args

	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// newAPIClient creates the API client from the resolved configuration.
// The per-request timeout rides on the HTTP client; the library applies
// its own environment fallbacks for credentials.
func newAPIClient(cfg *config.Config, logger *slog.Logger) (*firecrawl.Client, error) {
	return firecrawl.NewClient(cfg.APIKey, cfg.APIURL,
		firecrawl.WithLogger(logger),
		firecrawl.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
}

// openJobDB opens the local job history database.
func openJobDB(cfg *config.Config, logger *slog.Logger) (*database.JobDB, error) {
	if !cfg.SaveToDB {
		return nil, nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open job history database: %w", err)
	}
	logger.Debug("job history database opened", "dir", cfg.DBDir)
	return db, nil
}

// outputResult writes the result in the requested format.
func outputResult(cfg *config.Config, result *report.Result) error {
	var output *os.File
	if cfg.OutputFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.OutputFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // flushed by writer
		output = f
	} else {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(result)
		return err
	}

	if cfg.MarkdownOutput {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(result)
		return err
	}

	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(result)
	return err
}
