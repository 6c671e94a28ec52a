package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/seodiff/seodiff/internal/config"
	"github.com/seodiff/seodiff/internal/database"
	"github.com/seodiff/seodiff/internal/model"
	"github.com/seodiff/seodiff/internal/report"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url]",
		Short: "Crawl a single site and store its snapshot",
		Long: `Scan crawls one site, captures the rendered markup of every page, and
stores the snapshot session in the local database. A stored snapshot
preserves the pre-migration state of a site so it can be inspected
after the original goes offline.

With --output, the snapshot artifact (discovered URLs plus per-page
markup, as JSON) is also written to a file.

Examples:
  # Snapshot a site before migration
  seodiff scan https://example.com

  # Limit the crawl and write the artifact to a file
  seodiff scan --max-pages 50 --output snapshot.json https://example.com

  # Plain HTTP fetch without headless Chrome
  seodiff scan --static https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScanCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl (negative for no limit)")
	cmd.Flags().BoolP("quick", "q", false,
		fmt.Sprintf("Cap the crawl at %d pages", config.DefaultQuickMaxPages))
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Render timeout for each page")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Delay between page fetches")
	cmd.Flags().Bool("static", false,
		"Fetch pages with a plain HTTP client instead of headless Chrome")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seodiff in current or home directory)")

	// Output flags
	cmd.Flags().String("output", "",
		"Write the snapshot artifact (JSON) to specified file path")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no target specified (provide a site base URL as argument)")
	}

	cfg, err := buildScanConfig(cmd, args[0])
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// buildScanConfig creates a Config from scan command flags.
// The target URL is stored in OldURL; a scan has no second site.
func buildScanConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.OldURL = target

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Quick, err = cmd.Flags().GetBool("quick")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Static, err = cmd.Flags().GetBool("static")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadFileConfig(cfg); err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		return nil, config.ErrInvalidTimeout
	}
	if cfg.CrawlDelay < 0 {
		return nil, config.ErrInvalidCrawlDelay
	}

	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// runScan crawls the target site and stores the snapshot session.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"target", cfg.OldURL,
		"maxPages", cfg.EffectiveMaxPages(),
		"static", cfg.Static,
	)

	var db *database.SnapshotDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	c, renderer := newSiteCrawler(cfg, cfg.OldURL, logger)
	defer renderer.Close()

	fmt.Printf("Scanning %s...\n", cfg.OldURL)
	startTime := time.Now()

	result, err := c.Crawl(ctx, cfg.OldURL)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Scan completed in %s: %d URLs discovered, %d pages captured\n",
		elapsed.Round(time.Millisecond), len(result.URLs), result.PageCount())

	if cfg.ReportFile != "" {
		if err := writeSnapshotArtifact(cfg.ReportFile, result); err != nil {
			return err
		}
		fmt.Printf("Snapshot written to %s\n", cfg.ReportFile)
	}

	if db != nil {
		sessionID, err := db.SaveCrawlResult(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to save snapshot session: %w", err)
		}
		fmt.Printf("Snapshot session saved (ID %d)\n", sessionID)
	}

	return nil
}

// writeSnapshotArtifact writes the crawl result as a JSON snapshot
// artifact to the given path.
func writeSnapshotArtifact(path string, result *model.CrawlResult) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer := report.NewSnapshotWriter(f, report.WithSnapshotPrettyPrint())
	if _, err := writer.WriteCrawl(result); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
