package render

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// collectLinksJS gathers absolute anchor hrefs from the rendered DOM.
// Browser-resolved a.href values are already absolute, so no manual
// URL resolution is needed. Non-navigational schemes and bare fragment
// references are dropped at the source.
const collectLinksJS = `
(() => {
	const anchors = Array.from(document.querySelectorAll('a'));
	return anchors.map(a => a.href).filter(href =>
		href &&
		!href.startsWith('javascript:') &&
		!href.startsWith('mailto:') &&
		!href.startsWith('tel:') &&
		!href.startsWith('#')
	);
})()`

// networkIdleSettle is the settle period used by the WaitNetworkIdle
// strategy after the body is ready. Client-side frameworks typically
// hydrate within this window.
const networkIdleSettle = 2 * time.Second

// ChromeRenderer renders pages in a headless Chrome instance.
// One browser process is shared across all pages of a crawl; each
// render runs in its own tab so page state never leaks between fetches.
type ChromeRenderer struct {
	// opts holds the render configuration fixed at construction.
	opts Options

	// allocCancel tears down the Chrome process allocator.
	allocCancel context.CancelFunc

	// browserCtx is the shared browser context; tabs derive from it.
	browserCtx context.Context

	// browserCancel tears down the browser context.
	browserCancel context.CancelFunc

	// mu guards closed.
	mu sync.Mutex

	// closed is set once Close has been called.
	closed bool
}

// NewChromeRenderer starts a headless Chrome instance configured with
// the given options. The returned renderer must be closed to release
// the browser process.
//
// Starting the browser is a fatal setup step: if Chrome cannot be
// launched the whole run aborts rather than degrading silently.
func NewChromeRenderer(ctx context.Context, opts Options) (*ChromeRenderer, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run an empty task list to force the browser to start now, so a
	// missing Chrome binary surfaces as a setup error instead of a
	// per-page render failure.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	return &ChromeRenderer{
		opts:          opts,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Render loads the URL in a fresh tab and returns the rendered markup
// and outbound links.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (*Result, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, newRenderError(KindNavigation, url, ErrRendererClosed)
	}
	r.mu.Unlock()

	// One tab per page. Tab contexts must chain from the shared browser
	// context, so the caller's cancellation is propagated by hand.
	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, r.opts.Timeout)
	defer timeoutCancel()
	stop := context.AfterFunc(ctx, timeoutCancel)
	defer stop()

	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if r.opts.Wait == WaitNetworkIdle {
		tasks = append(tasks, chromedp.Sleep(networkIdleSettle))
	}

	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		// Respect the caller's cancellation over our classification.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyError(url, err)
	}

	var html string
	if err := chromedp.Run(timeoutCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, classifyError(url, err)
	}

	var links []string
	if err := chromedp.Run(timeoutCtx, chromedp.Evaluate(collectLinksJS, &links)); err != nil {
		// A page without extractable links is still a usable snapshot.
		links = nil
	}

	return &Result{HTML: html, Links: links}, nil
}

// Healthy reports whether the shared browser session is still usable.
// The browser context is cancelled when the Chrome process dies or
// Close was called.
func (r *ChromeRenderer) Healthy(_ context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && r.browserCtx.Err() == nil
}

// Close shuts down the browser process.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.browserCancel()
	r.allocCancel()
	return nil
}
