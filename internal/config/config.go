package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-page render timeout. Headless rendering
	// of script-heavy pages can take tens of seconds; 30 seconds covers
	// slow pages without stalling the whole crawl on a dead one.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages removes the page limit: a migration audit should
	// cover the whole site unless the user asks for less. Runaway
	// crawls are bounded by the visited-URL set, and --quick or
	// --max-pages cap the crawl explicitly.
	DefaultMaxPages = -1

	// DefaultQuickMaxPages is the page cap applied by the --quick flag.
	// Ten pages cover the home page and the main sections, enough for
	// a smoke test of a migration.
	DefaultQuickMaxPages = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "seodiff"

	// DefaultCrawlDelay is the delay between page fetches.
	// Zero by default: both sites under comparison usually belong to
	// the user, so politeness throttling is opt-in.
	DefaultCrawlDelay = 0 * time.Second

	// DefaultUserAgent identifies seodiff in HTTP requests.
	// A descriptive User-Agent lets operators identify crawler traffic
	// in their logs.
	DefaultUserAgent = "seodiff/1.0 (+https://github.com/seodiff/seodiff)"
)

// Config holds all configuration options for seodiff.
// This struct is designed to be populated from CLI flags and the
// optional config file, then passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested
// structs (e.g., CrawlConfig, ReportConfig) for simplicity. The number
// of options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// OldURL is the base URL of the original site.
	OldURL string

	// NewURL is the base URL of the migrated site.
	NewURL string

	// MaxPages is the maximum number of pages to crawl per site.
	// Negative means unbounded; 0 crawls nothing.
	MaxPages int

	// Quick caps the crawl at DefaultQuickMaxPages for a fast smoke
	// test. When set it overrides MaxPages.
	Quick bool

	// Static disables headless rendering and fetches pages with a
	// plain HTTP client. Faster, but misses client-rendered content.
	Static bool

	// Timeout is the per-page render timeout.
	Timeout time.Duration

	// CrawlDelay is the delay between page fetches.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seodiff in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the config file.
	// This is populated by LoadConfigFile and used during crawling and
	// comparison.
	File *File

	// JSONReport enables JSON report output instead of the terminal
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// terminal format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to persist crawls and reports.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (timeout, user
// agent, unbounded page limit). This also serves as documentation of
// what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:   DefaultMaxPages,
		Timeout:    DefaultTimeout,
		CrawlDelay: DefaultCrawlDelay,
		UserAgent:  DefaultUserAgent,
		DBDir:      XDGDataDir(),
	}
}

// EffectiveMaxPages returns the page limit after applying --quick.
func (c *Config) EffectiveMaxPages() int {
	if c.Quick {
		return DefaultQuickMaxPages
	}
	return c.MaxPages
}

// XDGDataDir returns the XDG data directory for seodiff.
// On Linux: ~/.local/share/seodiff
// On macOS: ~/Library/Application Support/seodiff
// On Windows: %LOCALAPPDATA%\seodiff
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seodiff.
// On Linux: ~/.config/seodiff
// On macOS: ~/Library/Application Support/seodiff
// On Windows: %APPDATA%\seodiff
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid for a comparison run.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.OldURL == "" {
		return ErrMissingOldURL
	}
	if c.NewURL == "" {
		return ErrMissingNewURL
	}

	// Zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	return nil
}
