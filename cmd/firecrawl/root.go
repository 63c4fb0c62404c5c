// Package main provides the entry point for the firecrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the firecrawl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firecrawl",
		Short: "Turn web pages into clean, LLM-ready data",
		Long: `firecrawl scrapes and crawls websites through the Firecrawl API.

It fetches single pages as markdown, HTML, or link lists, runs whole-site
crawl jobs with progress polling, and records every job in a local history.

The API key is taken from --api-key, the configuration file, or the
FIRECRAWL_API_KEY environment variable, in that order.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewCancelCmd())
	cmd.AddCommand(NewJobsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
