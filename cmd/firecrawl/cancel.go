package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/firecrawl/internal/log"
	"github.com/spf13/cobra"
)

// NewCancelCmd creates the cancel command.
func NewCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a running crawl job",
		Long: `Cancel asks the Firecrawl API to stop a running crawl job and prints
the server's acknowledgement.

Pages already collected remain available through 'firecrawl status'.
Any 'firecrawl crawl' waiting on the same job sees the stopped status
and exits.

Examples:
  # Cancel a crawl
  firecrawl cancel 7a3a8f9e-1b2c-4d5e-8f90-1234567890ab`,
		Args: cobra.ExactArgs(1),
		RunE: runCancelCmd,
	}

	addClientFlags(cmd)

	return cmd
}

// runCancelCmd executes the cancel command.
func runCancelCmd(cmd *cobra.Command, args []string) error {
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
	resp, err := client.CancelCrawl(context.Background(), jobID)
	if err != nil {
		return fmt.Errorf("failed to cancel crawl: %w", err)
	}

	syncJobHistory(db, logger, jobID, resp)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
