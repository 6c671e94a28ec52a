// Package main provides the entry point for the seodiff CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seodiff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seodiff",
		Short: "SEO field diffing tool for website migrations",
		Long: `seodiff crawls two versions of a website and reports differences in
SEO-relevant fields (title, meta description, headings, canonical,
Open Graph, Twitter Card) between matching pages.

By default, pages are rendered with a headless Chrome browser so
client-rendered content is captured. Use --static for a plain HTTP
fetch when the sites are fully server-rendered.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
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
