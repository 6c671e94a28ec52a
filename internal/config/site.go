package config

// SiteConfig holds site-specific crawl configuration.
// This allows customizing crawl behavior per site when the two sites
// under comparison need different treatment (one behind a staging
// proxy, one script-heavy).
type SiteConfig struct {
	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Wait selects the render wait strategy: "ready" waits for the DOM,
	// "idle" also waits for network activity to settle. Empty uses the
	// renderer default.
	Wait string `yaml:"wait,omitempty"`

	// ViewportWidth and ViewportHeight set the browser viewport.
	// Zero uses the renderer default.
	ViewportWidth  int `yaml:"viewportWidth,omitempty"`
	ViewportHeight int `yaml:"viewportHeight,omitempty"`

	// MaxPages overrides the global page limit for this site.
	// If zero, the global limit is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnorePatterns are URL patterns to skip during crawling.
	// Patterns are matched against the URL path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// CompareConfig holds the options for matching and diffing the two
// sites. These live in the config file rather than flags because they
// describe properties of the site pair, not of one run.
type CompareConfig struct {
	// NormalizeTrailingSlash treats "/about" and "/about/" as the same
	// page during URL matching.
	NormalizeTrailingSlash bool `yaml:"normalizeTrailingSlash,omitempty"`

	// IgnoreCase matches URLs case-insensitively.
	IgnoreCase bool `yaml:"ignoreCase,omitempty"`

	// SortQueryParams ignores query parameter order during matching.
	SortQueryParams bool `yaml:"sortQueryParams,omitempty"`

	// Schema selects the tracked field set: "full" or "core".
	// Empty means full.
	Schema string `yaml:"schema,omitempty"`
}

// File represents the structure of the .seodiff configuration file.
type File struct {
	// Sites maps base URLs to their site-specific configurations.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Compare holds the URL matching and diff options.
	Compare CompareConfig `yaml:"compare,omitempty"`
}

// GetSiteConfig returns the configuration for a specific base URL.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(baseURL string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[baseURL]; ok {
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.Wait != "" {
			result.Wait = siteConfig.Wait
		}
		if siteConfig.ViewportWidth != 0 {
			result.ViewportWidth = siteConfig.ViewportWidth
		}
		if siteConfig.ViewportHeight != 0 {
			result.ViewportHeight = siteConfig.ViewportHeight
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if len(siteConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = siteConfig.IgnorePatterns
		}
	}

	return result
}
