package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/seodiff/seodiff/internal/config"
	"github.com/seodiff/seodiff/internal/crawler"
	"github.com/seodiff/seodiff/internal/database"
	"github.com/seodiff/seodiff/internal/diff"
	seolog "github.com/seodiff/seodiff/internal/log"
	"github.com/seodiff/seodiff/internal/model"
	"github.com/seodiff/seodiff/internal/pipeline"
	"github.com/seodiff/seodiff/internal/render"
	"github.com/seodiff/seodiff/internal/report"
	"github.com/spf13/cobra"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Crawl two sites and diff their SEO fields",
		Long: `Compare crawls the old and new versions of a website, matches pages
across the two domains by rewriting old URLs onto the new base, and
reports field-level differences in SEO-relevant markup:
- Pages missing on the new site and pages that only exist there
- Per-page changes in title, meta description, headings, canonical,
  Open Graph, and Twitter Card fields
- Per-field impact counts across the whole site

Examples:
  # Compare a live site against its migrated staging version
  seodiff compare --old https://example.com --new https://staging.example.com

  # Quick smoke test (10 pages per site)
  seodiff compare --quick -o https://example.com -n https://staging.example.com

  # JSON report written to a file
  seodiff compare -o https://example.com -n https://staging.example.com \
    --json --output report.json

  # Plain HTTP fetch without headless Chrome
  seodiff compare --static -o https://example.com -n https://staging.example.com

Configuration file (.seodiff) example:
  defaults:
    wait: idle
  sites:
    https://staging.example.com:
      maxPages: 200
      ignorePatterns:
        - "/preview/*"
  compare:
    normalizeTrailingSlash: true
    schema: core`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// Site selection flags
	cmd.Flags().StringP("old", "o", "",
		"Base URL of the original site (required)")
	cmd.Flags().StringP("new", "n", "",
		"Base URL of the migrated site (required)")

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site (negative for no limit)")
	cmd.Flags().BoolP("quick", "q", false,
		fmt.Sprintf("Cap each crawl at %d pages for a fast smoke test", config.DefaultQuickMaxPages))
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Render timeout for each page")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Delay between page fetches")
	cmd.Flags().Bool("static", false,
		"Fetch pages with a plain HTTP client instead of headless Chrome")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seodiff in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("output", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	// Build config from flags
	cfg, err := buildCompareConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCompare(ctx, cfg, logger)
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

// buildCompareConfig creates a Config from cobra command flags.
func buildCompareConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.OldURL, err = cmd.Flags().GetString("old")
	if err != nil {
		return nil, err
	}

	cfg.NewURL, err = cmd.Flags().GetString("new")
	if err != nil {
		return nil, err
	}

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

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// loadFileConfig loads site-specific configurations from the config
// file. If the user explicitly specified a config file path, a missing
// file is an error. If no path was specified, a missing file silently
// yields an empty config.
func loadFileConfig(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File = file
		return nil
	}

	if explicitConfigPath {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.File = &config.File{
		Sites: make(map[string]config.SiteConfig),
	}
	return nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Long attribute values (page markup, link lists) are truncated so a
// verbose crawl log stays readable.
func setupLogger(verbose bool) *slog.Logger {
	return seolog.NewLogger(os.Stderr, verbose)
}

// runCompare executes the comparison.
func runCompare(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting comparison",
		"oldURL", cfg.OldURL,
		"newURL", cfg.NewURL,
		"maxPages", cfg.EffectiveMaxPages(),
		"static", cfg.Static,
	)

	// Open database connection if saving is enabled
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

	// One crawler per site so the config file can give the two sites
	// different render settings.
	oldCrawler, oldRenderer := newSiteCrawler(cfg, cfg.OldURL, logger)
	defer oldRenderer.Close()
	newCrawler, newRenderer := newSiteCrawler(cfg, cfg.NewURL, logger)
	defer newRenderer.Close()

	schema := model.SchemaByName(cfg.File.Compare.Schema)
	reconciler := diff.NewReconciler(cfg.OldURL, cfg.NewURL, diff.Options{
		NormalizeTrailingSlash: cfg.File.Compare.NormalizeTrailingSlash,
		IgnoreCase:             cfg.File.Compare.IgnoreCase,
		SortQueryParams:        cfg.File.Compare.SortQueryParams,
	})

	p := pipeline.NewComparePipeline(oldCrawler, newCrawler, reconciler, schema, getVersion(), logger)
	state := &pipeline.State{
		OldBaseURL: cfg.OldURL,
		NewBaseURL: cfg.NewURL,
	}

	fmt.Printf("Comparing %s against %s...\n", cfg.OldURL, cfg.NewURL)
	startTime := time.Now()

	if err := p.Execute(ctx, state); err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Comparison completed in %s\n\n", elapsed.Round(time.Millisecond))

	// Generate and output report
	if err := outputReport(cfg, state.Report); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	// Persist crawls and report. Failures here are logged rather than
	// returned: the user already has the report on their terminal.
	saveCompareResults(ctx, db, state, logger)

	return nil
}

// newSiteCrawler builds a crawler and its renderer for one site,
// applying site-specific overrides from the config file. The caller
// owns the renderer and must close it.
func newSiteCrawler(cfg *config.Config, baseURL string, logger *slog.Logger) (*crawler.Crawler, render.Renderer) {
	siteCfg := cfg.File.GetSiteConfig(baseURL)

	opts := render.Options{
		ViewportWidth:  siteCfg.ViewportWidth,
		ViewportHeight: siteCfg.ViewportHeight,
		UserAgent:      cfg.UserAgent,
		Wait:           render.WaitStrategy(siteCfg.Wait),
		Timeout:        cfg.Timeout,
	}
	if siteCfg.UserAgent != "" {
		opts.UserAgent = siteCfg.UserAgent
	}

	renderer := newRenderer(cfg, opts)

	maxPages := cfg.EffectiveMaxPages()
	if siteCfg.MaxPages != 0 {
		maxPages = siteCfg.MaxPages
	}

	c := crawler.New(renderer,
		crawler.WithMaxPages(maxPages),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithIgnorePatterns(siteCfg.IgnorePatterns),
		crawler.WithLogger(logger),
	)
	return c, renderer
}

// newRenderer picks the renderer implementation for the run.
// The Chrome renderer is wrapped in a Managed so a crashed browser
// session is replaced before the next page instead of failing the
// rest of the crawl.
func newRenderer(cfg *config.Config, opts render.Options) render.Renderer {
	if cfg.Static {
		return render.NewStaticRenderer(opts, nil)
	}
	return render.NewManaged(func(ctx context.Context) (render.Renderer, error) {
		return render.NewChromeRenderer(ctx, opts)
	})
}

// outputReport outputs the migration report in the requested format.
func outputReport(cfg *config.Config, migrationReport *model.MigrationReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions;
		// reports can reveal unreleased staging URLs.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(migrationReport)
	return err
}

// saveCompareResults persists both crawls and the report.
// If db is nil, this function is a no-op.
func saveCompareResults(ctx context.Context, db *database.SnapshotDB, state *pipeline.State, logger *slog.Logger) {
	if db == nil {
		return
	}

	for _, crawl := range []*model.CrawlResult{state.OldCrawl, state.NewCrawl} {
		if crawl == nil {
			continue
		}
		sessionID, err := db.SaveCrawlResult(ctx, crawl)
		if err != nil {
			logger.Error("failed to save crawl session", "baseURL", crawl.BaseURL, "error", err)
			continue
		}
		logger.Info("crawl session saved", "baseURL", crawl.BaseURL, "sessionID", sessionID)
	}

	if state.Report != nil {
		if err := db.SaveReport(ctx, state.Report); err != nil {
			logger.Error("failed to save report", "error", err)
			return
		}
		logger.Info("migration report saved to database")
	}
}
