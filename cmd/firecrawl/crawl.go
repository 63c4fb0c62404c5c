package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nao1215/firecrawl"
	"github.com/nao1215/firecrawl/internal/config"
	"github.com/nao1215/firecrawl/internal/database"
	"github.com/nao1215/firecrawl/internal/log"
	"github.com/nao1215/firecrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a website and wait for the results",
		Long: `Crawl starts a multi-page crawl job on the Firecrawl API and polls it
until it finishes.

The server discovers and fetches pages; the CLI records the job in the
local history, polls the status at a fixed interval, and prints the
collected documents when the job completes. Press Ctrl-C to stop
waiting; the job keeps running server-side and can be checked later with
'firecrawl status' or stopped with 'firecrawl cancel'.

Examples:
  # Crawl a site with default settings
  firecrawl crawl https://example.com

  # Limit the crawl to 50 pages, two levels deep
  firecrawl crawl --limit 50 --max-depth 2 https://example.com

  # Poll every 10 seconds and write the result to a file
  firecrawl crawl --poll-interval 10s -o result.md -m https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("limit", "l", 0,
		"Maximum number of pages to crawl (0 uses the server default)")
	cmd.Flags().IntP("max-depth", "d", 0,
		"Maximum link depth from the starting URL (0 uses the server default)")
	cmd.Flags().DurationP("poll-interval", "p", config.DefaultPollInterval,
		"Delay between crawl status checks")

	// Scrape options applied to each crawled page
	cmd.Flags().StringSliceP("formats", "F", []string{"markdown"},
		"Result formats for each page: markdown, html, rawHtml, links")
	cmd.Flags().Bool("only-main-content", false,
		"Strip navigation, headers, and footers server-side")
	cmd.Flags().Int("wait-for", 0,
		"Milliseconds the server waits for dynamic content before capturing")

	addClientFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.PollInterval, err = cmd.Flags().GetDuration("poll-interval")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	options, err := buildCrawlOptions(cmd, cfg)
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

	return runCrawl(ctx, cfg, client, db, options, logger)
}

// buildCrawlOptions assembles the crawl request options. Page-level
// scrape settings nest under "scrapeOptions" per the API contract.
func buildCrawlOptions(cmd *cobra.Command, cfg *config.Config) (map[string]any, error) {
	options := map[string]any{}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		options["limit"] = limit
	}

	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return nil, err
	}
	if maxDepth > 0 {
		options["maxDepth"] = maxDepth
	}

	scrapeOptions, err := buildScrapeOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	options["scrapeOptions"] = scrapeOptions

	return options, nil
}

// runCrawl starts the crawl job and waits for it to finish.
func runCrawl(ctx context.Context, cfg *config.Config, client *firecrawl.Client, db *database.JobDB, options map[string]any, logger *slog.Logger) error {
	target := cfg.Targets[0]

	jobID, err := client.CreateCrawl(ctx, target, options)
	if err != nil {
		return fmt.Errorf("failed to start crawl: %w", err)
	}

	recordCrawlStart(ctx, db, logger, target, jobID)

	fmt.Printf("Crawl job %s started for %s\n", jobID, target)
	fmt.Printf("Polling every %s (Ctrl-C to stop waiting; the job keeps running)...\n\n", cfg.PollInterval)

	start := time.Now()
	data, err := client.WaitCrawl(ctx, jobID, cfg.PollInterval)
	elapsed := time.Since(start)
	if err != nil {
		recordCrawlEnd(ctx, db, logger, jobID, crawlErrStatus(err), 0, err)
		return err
	}

	result := report.NewResult(database.KindCrawl, target, jobID, data, elapsed)
	recordCrawlEnd(ctx, db, logger, jobID, firecrawl.StatusCompleted, len(result.Documents), nil)

	fmt.Printf("Crawl completed in %s\n\n", elapsed.Round(time.Millisecond))
	return outputResult(cfg, result)
}

// crawlErrStatus maps a WaitCrawl error to the status recorded locally.
// A server-reported terminal status is kept as-is; everything else
// (transport failure, Ctrl-C) leaves the job in an unknown state.
func crawlErrStatus(err error) string {
	var jobErr *firecrawl.JobError
	if errors.As(err, &jobErr) && jobErr.Status != "" {
		return jobErr.Status
	}
	return "unknown"
}

// recordCrawlStart writes the new crawl job to the local history.
func recordCrawlStart(ctx context.Context, db *database.JobDB, logger *slog.Logger, target, jobID string) {
	if db == nil {
		return
	}

	record := &database.JobRecord{
		JobID:  jobID,
		URL:    target,
		Kind:   database.KindCrawl,
		Status: "scraping",
	}
	if _, err := db.InsertJob(ctx, record); err != nil {
		logger.Error("failed to record crawl in history", "jobID", jobID, "error", err)
	}
}

// recordCrawlEnd updates the crawl job's final state in the local history.
func recordCrawlEnd(ctx context.Context, db *database.JobDB, logger *slog.Logger, jobID, status string, pages int, crawlErr error) {
	if db == nil {
		return
	}

	errMsg := ""
	if crawlErr != nil {
		errMsg = crawlErr.Error()
	}
	if err := db.UpdateJobStatus(ctx, jobID, status, pages, errMsg); err != nil {
		logger.Error("failed to update crawl in history", "jobID", jobID, "error", err)
	}
}
