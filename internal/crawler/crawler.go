package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/seodiff/seodiff/internal/model"
	"github.com/seodiff/seodiff/internal/render"
)

// Unbounded disables the page limit.
const Unbounded = -1

// Crawler walks a site breadth-first through a renderer, collecting
// the markup of every reachable page under the base URL.
//
// Design decision: The crawler takes a render.Renderer rather than an
// HTTP client because:
//  1. Browser-rendered and static fetching share the crawl logic
//  2. Tests script a fake renderer instead of standing up servers
//  3. Renderer lifecycle (browser restarts) stays out of crawl code
type Crawler struct {
	// renderer fetches and renders pages.
	renderer render.Renderer

	// maxPages limits the number of visited pages, counting pages
	// whose render fails. Unbounded (negative) removes the limit;
	// 0 crawls nothing.
	maxPages int

	// delay is the politeness pause between page fetches.
	delay time.Duration

	// ignorePatterns are URL path glob patterns to skip.
	ignorePatterns []string

	// logger reports per-page progress and skipped failures.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the maximum number of pages to crawl.
// A negative value removes the limit; 0 crawls nothing.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithDelay sets the pause between page fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Crawler) {
		c.ignorePatterns = patterns
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler backed by the given renderer.
// By default the crawl is unbounded with no delay.
func New(renderer render.Renderer, opts ...Option) *Crawler {
	c := &Crawler{
		renderer: renderer,
		maxPages: Unbounded,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Crawl walks the site starting at baseURL and returns the discovered
// URLs and page snapshots. All crawl state is local to the call, so a
// Crawler can run multiple crawls sequentially without resetting.
//
// The returned result lists every in-scope URL that was discovered,
// including pages whose render failed; Snapshots holds markup only for
// pages rendered successfully.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*model.CrawlResult, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	result := &model.CrawlResult{
		BaseURL:   baseURL,
		URLs:      make([]string, 0),
		Snapshots: make(map[string]string),
	}

	if c.maxPages == 0 {
		return result, nil
	}

	visited := make(map[string]bool)
	queue := []string{baseURL}

	for len(queue) > 0 {
		// The budget counts visits, not successful renders: a site
		// full of broken pages must still stop at the limit.
		if c.maxPages > 0 && len(visited) >= c.maxPages {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		pageURL := queue[0]
		queue = queue[1:]

		if visited[pageURL] {
			continue
		}
		// Mark before rendering so a failing page is never retried.
		visited[pageURL] = true
		result.URLs = append(result.URLs, pageURL)

		rendered, err := c.renderer.Render(ctx, pageURL)
		if err != nil {
			c.logger.Warn("skipping page after render failure",
				slog.String("url", pageURL),
				slog.String("error", err.Error()))
			continue
		}

		result.Snapshots[pageURL] = rendered.HTML
		c.logger.Info("crawled page",
			slog.String("url", pageURL),
			slog.Int("pages", len(visited)))

		for _, link := range rendered.Links {
			if visited[link] {
				continue
			}
			if !c.inScope(baseURL, link) {
				continue
			}
			if !c.shouldCrawl(link) {
				continue
			}
			queue = append(queue, link)
		}

		if c.delay > 0 && len(queue) > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}

	return result, nil
}

// inScope reports whether link belongs to the crawl: links are
// followed only when they extend the base URL.
//
// Design decision: Scoping is a plain string prefix match because:
//  1. It keeps subpath migrations (site moved under /blog) exact
//  2. Host-only scoping would leak into unrelated sections
//  3. The comparison stays total even for unparseable links
func (c *Crawler) inScope(baseURL, link string) bool {
	return strings.HasPrefix(link, baseURL)
}

// shouldCrawl reports whether the URL path passes the ignore patterns.
func (c *Crawler) shouldCrawl(pageURL string) bool {
	if len(c.ignorePatterns) == 0 {
		return true
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range c.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}
	return true
}
