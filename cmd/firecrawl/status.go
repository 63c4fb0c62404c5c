package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/firecrawl"
	"github.com/nao1215/firecrawl/internal/database"
	"github.com/nao1215/firecrawl/internal/log"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Check the status of a crawl job",
		Long: `Status fetches the current state of a crawl job from the Firecrawl API
and prints the raw response.

The job ID is printed by 'firecrawl crawl' when the job starts and is
also listed by 'firecrawl jobs'. The response includes the job status,
progress counters, and the documents collected so far.

Examples:
  # Check a running crawl
  firecrawl status 7a3a8f9e-1b2c-4d5e-8f90-1234567890ab`,
		Args: cobra.ExactArgs(1),
		RunE: runStatusCmd,
	}

	addClientFlags(cmd)

	return cmd
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildJobConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		return err
	}

	db, err := openJobDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // read-mostly CLI database

	jobID := cfg.Targets[0]
	resp, err := client.CheckCrawlStatus(context.Background(), jobID)
	if err != nil {
		return fmt.Errorf("failed to check crawl status: %w", err)
	}

	syncJobHistory(db, logger, jobID, resp)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// syncJobHistory mirrors the server-reported status into the local
// history. Jobs started on other machines are unknown locally; that is
// not an error.
func syncJobHistory(db *database.JobDB, logger *slog.Logger, jobID string, resp firecrawl.Response) {
	if db == nil {
		return
	}

	status := resp.Status()
	if status == "" {
		return
	}

	docs, err := firecrawl.DocumentsFromData(resp.Data())
	if err != nil {
		docs = nil
	}

	err = db.UpdateJobStatus(context.Background(), jobID, status, len(docs), resp.ErrorMessage())
	if err != nil && !errors.Is(err, database.ErrJobNotFound) {
		logger.Error("failed to update job history", "jobID", jobID, "error", err)
	}
}
