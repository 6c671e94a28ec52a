package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// PageSnapshot is the rendered markup captured for one URL.
// Snapshots are immutable once captured; the crawler never revisits a
// URL within a session.
type PageSnapshot struct {
	// URL is the full page URL as discovered during the crawl.
	URL string `json:"url"`

	// HTML is the raw rendered markup returned by the page renderer.
	HTML string `json:"html"`

	// Hash is the SHA-256 hash of the HTML, used for change detection
	// and deduplication in the snapshot store.
	Hash string `json:"hash"`
}

// NewPageSnapshot creates a snapshot with its content hash computed.
func NewPageSnapshot(url, html string) PageSnapshot {
	return PageSnapshot{
		URL:  url,
		HTML: html,
		Hash: HashContent(html),
	}
}

// HashContent returns the hex-encoded SHA-256 digest of the given markup.
func HashContent(html string) string {
	if html == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

// CrawlResult is the outcome of crawling one site.
// URLs is the set of in-scope URLs discovered during the crawl;
// Snapshots maps each successfully rendered URL to its markup. A URL
// may appear in URLs without a snapshot when its render failed.
type CrawlResult struct {
	// BaseURL is the scoping prefix the crawl was started from.
	BaseURL string `json:"baseUrl"`

	// URLs contains every discovered in-scope URL in visit order.
	URLs []string `json:"urls"`

	// Snapshots maps URL to rendered HTML for pages that rendered.
	Snapshots map[string]string `json:"snapshots"`
}

// PageCount returns the number of pages with a captured snapshot.
func (r *CrawlResult) PageCount() int {
	return len(r.Snapshots)
}

// HasURL reports whether the given URL was discovered during the crawl.
func (r *CrawlResult) HasURL(url string) bool {
	for _, u := range r.URLs {
		if u == url {
			return true
		}
	}
	return false
}

// SnapshotArtifact is the persisted per-site snapshot file format.
// Snapshot map keys are sanitized URL strings safe for use as JSON
// object keys and filenames.
type SnapshotArtifact struct {
	// URLs contains every discovered URL.
	URLs []string `json:"urls"`

	// Snapshots maps sanitized URL keys to rendered HTML.
	Snapshots map[string]string `json:"snapshots"`
}

// NewSnapshotArtifact builds the persisted artifact from a crawl result.
func NewSnapshotArtifact(result *CrawlResult) *SnapshotArtifact {
	artifact := &SnapshotArtifact{
		URLs:      append([]string(nil), result.URLs...),
		Snapshots: make(map[string]string, len(result.Snapshots)),
	}

	sort.Strings(artifact.URLs)
	for url, html := range result.Snapshots {
		artifact.Snapshots[SanitizeURLKey(url)] = html
	}

	return artifact
}

// SanitizeURLKey converts a URL into a key safe for filenames and
// snapshot map lookups. Every character outside [a-zA-Z0-9._-] is
// replaced with an underscore.
func SanitizeURLKey(url string) string {
	var sb strings.Builder
	sb.Grow(len(url))

	for _, c := range url {
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			sb.WriteRune(c)
		default:
			sb.WriteByte('_')
		}
	}

	return sb.String()
}
