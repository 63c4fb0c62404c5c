package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nao1215/firecrawl/internal/config"
	"github.com/nao1215/firecrawl/internal/database"
	"github.com/spf13/cobra"
)

// NewJobsCmd creates the jobs command.
func NewJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List scrapes and crawls started from this machine",
		Long: `Jobs lists the local job history, newest first.

The history records every scrape and crawl started from this machine in
a SQLite database under the XDG data directory. It is local only: jobs
started elsewhere do not appear, and the server remains the source of
truth for live job state ('firecrawl status' refreshes an entry).

Examples:
  # Show the 20 most recent jobs
  firecrawl jobs

  # Show the full history
  firecrawl jobs --limit 0`,
		Args: cobra.NoArgs,
		RunE: runJobsCmd,
	}

	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of jobs to list (0 lists all)")

	return cmd
}

// runJobsCmd executes the jobs command.
func runJobsCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open job history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only listing

	records, err := db.ListJobs(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No jobs recorded yet. Run 'firecrawl scrape' or 'firecrawl crawl' first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tKIND\tSTATUS\tPAGES\tJOB ID\tURL")
	for _, record := range records {
		created := "-"
		if !record.CreatedAt.IsZero() {
			created = record.CreatedAt.Format("2006-01-02 15:04")
		}
		jobID := record.JobID
		if jobID == "" {
			jobID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			created, record.Kind, record.Status, record.Pages, jobID, record.URL)
	}
	return w.Flush()
}
