package render

import (
	"context"
	"time"
)

// Default renderer settings.
const (
	// DefaultViewportWidth and DefaultViewportHeight describe a common
	// desktop viewport. SEO-relevant markup rarely depends on viewport,
	// but some sites lazy-render navigation below mobile widths.
	DefaultViewportWidth  = 1366
	DefaultViewportHeight = 768

	// DefaultTimeout bounds a single page render including navigation,
	// script execution, and markup serialization.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies seodiff in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "seodiff/1.0 (+https://github.com/seodiff/seodiff)"
)

// WaitStrategy controls when a page is considered rendered.
type WaitStrategy string

const (
	// WaitReady waits until the document body is ready. Suitable for
	// server-rendered sites.
	WaitReady WaitStrategy = "ready"

	// WaitNetworkIdle additionally waits a short settle period after
	// body readiness so client-side frameworks can populate the DOM.
	WaitNetworkIdle WaitStrategy = "idle"
)

// Result is the outcome of rendering one page.
type Result struct {
	// HTML is the serialized markup after rendering.
	HTML string

	// Links contains the absolute outbound link URLs found on the page,
	// in document order, with javascript:/mailto:/tel: and bare
	// fragment references already removed.
	Links []string
}

// Renderer loads pages and returns their rendered markup and links.
//
// Design decision: We keep the interface narrow (one render method plus
// lifecycle) because the crawler is the only consumer and tests need to
// substitute a scripted fake. Render options are fixed at construction
// rather than passed per call; a crawl uses one consistent
// configuration for every page.
type Renderer interface {
	// Render loads the URL and returns its markup and outbound links.
	// Failures are reported as *RenderError.
	Render(ctx context.Context, url string) (*Result, error)

	// Healthy reports whether the renderer can serve further requests.
	// A false return means the session is broken and the renderer must
	// be replaced before the next render.
	Healthy(ctx context.Context) bool

	// Close releases the renderer's resources.
	Close() error
}

// Options configures a renderer implementation.
type Options struct {
	// ViewportWidth and ViewportHeight set the browser viewport.
	// Ignored by StaticRenderer.
	ViewportWidth  int
	ViewportHeight int

	// UserAgent is the User-Agent header sent with each request.
	UserAgent string

	// Wait selects the render wait strategy. Ignored by StaticRenderer.
	Wait WaitStrategy

	// Timeout bounds each individual page render.
	Timeout time.Duration
}

// DefaultOptions returns renderer options with all defaults applied.
func DefaultOptions() Options {
	return Options{
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		UserAgent:      DefaultUserAgent,
		Wait:           WaitReady,
		Timeout:        DefaultTimeout,
	}
}

// withDefaults fills zero-valued fields with defaults.
func (o Options) withDefaults() Options {
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Wait == "" {
		o.Wait = WaitReady
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
