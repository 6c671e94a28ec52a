package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// maxStaticBodySize limits the response body read by StaticRenderer.
// 5MB is generous for HTML pages while preventing memory exhaustion on
// misconfigured endpoints that stream binary content with a text type.
const maxStaticBodySize = 5 * 1024 * 1024

// StaticRenderer fetches pages with a plain HTTP client and extracts
// links from the static markup. It does not execute JavaScript, so
// client-rendered sites should use ChromeRenderer instead.
//
// Design decision: We keep a non-browser implementation because:
//  1. Most sites worth auditing serve SEO fields server-side anyway
//  2. It removes the Chrome dependency for CI and quick checks
//  3. It gives tests a renderer that works against httptest servers
type StaticRenderer struct {
	// opts holds the render configuration fixed at construction.
	opts Options

	// client performs the HTTP fetches.
	client *http.Client

	// mu guards closed.
	mu sync.Mutex

	// closed is set once Close has been called.
	closed bool
}

// NewStaticRenderer creates a StaticRenderer with the given options.
// If client is nil, a default client with the configured timeout is used.
func NewStaticRenderer(opts Options, client *http.Client) *StaticRenderer {
	opts = opts.withDefaults()

	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &StaticRenderer{
		opts:   opts,
		client: client,
	}
}

// Render fetches the URL and returns its markup and outbound links.
func (r *StaticRenderer) Render(ctx context.Context, pageURL string) (*Result, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, newRenderError(KindNavigation, pageURL, ErrRendererClosed)
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, newRenderError(KindNavigation, pageURL, err)
	}
	req.Header.Set("User-Agent", r.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classifyError(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newRenderError(KindNavigation, pageURL,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStaticBodySize))
	if err != nil {
		return nil, classifyError(pageURL, err)
	}

	markup := string(body)
	links := extractLinks(pageURL, markup)

	return &Result{HTML: markup, Links: links}, nil
}

// Healthy always returns true while the renderer is open: a plain HTTP
// client has no session state that can break.
func (r *StaticRenderer) Healthy(_ context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed
}

// Close releases idle connections.
func (r *StaticRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.client.CloseIdleConnections()
	return nil
}

// extractLinks parses anchor hrefs from markup and resolves them
// against the page URL. Parse failures yield an empty link list rather
// than an error; a page without links is still a valid snapshot.
func extractLinks(pageURL, markup string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := anchorHref(n); href != "" {
				if resolved := resolveLink(base, href); resolved != "" {
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// anchorHref returns the href attribute of an anchor node.
func anchorHref(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			return attr.Val
		}
	}
	return ""
}

// resolveLink resolves href against base, dropping non-navigational
// schemes and bare fragment references.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}
