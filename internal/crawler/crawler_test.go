package crawler

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/seodiff/seodiff/internal/render"
)

// fakePage scripts one page for the fake renderer.
type fakePage struct {
	html  string
	links []string
	err   error
}

// fakeRenderer serves scripted pages and records render calls.
type fakeRenderer struct {
	pages map[string]fakePage
	calls []string
}

func (f *fakeRenderer) Render(_ context.Context, pageURL string) (*render.Result, error) {
	f.calls = append(f.calls, pageURL)
	p, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("not found")
	}
	if p.err != nil {
		return nil, p.err
	}
	return &render.Result{HTML: p.html, Links: p.links}, nil
}

func (f *fakeRenderer) Healthy(_ context.Context) bool { return true }
func (f *fakeRenderer) Close() error                   { return nil }

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	r := &fakeRenderer{pages: map[string]fakePage{
		base: {html: "<html>home</html>", links: []string{
			base + "/about",
			base + "/contact",
			"https://other.example/external",
		}},
		base + "/about":   {html: "<html>about</html>", links: []string{base}},
		base + "/contact": {html: "<html>contact</html>"},
	}}

	got, err := New(r).Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	wantURLs := []string{base, base + "/about", base + "/contact"}
	if !reflect.DeepEqual(got.URLs, wantURLs) {
		t.Errorf("Crawl() URLs = %v, want %v", got.URLs, wantURLs)
	}

	if len(got.Snapshots) != 3 {
		t.Errorf("Crawl() snapshots = %d, want 3", len(got.Snapshots))
	}
	if got.Snapshots[base+"/about"] != "<html>about</html>" {
		t.Errorf("Crawl() snapshot mismatch for /about: %q", got.Snapshots[base+"/about"])
	}
}

func TestCrawler_CrawlScopesToBaseURL(t *testing.T) {
	t.Parallel()

	base := "https://old.example/blog"
	r := &fakeRenderer{pages: map[string]fakePage{
		base: {html: "<html></html>", links: []string{
			base + "/post-1",
			"https://old.example/shop", // same host, out of scope
			"https://cdn.example/app.js",
		}},
		base + "/post-1": {html: "<html></html>"},
	}}

	got, err := New(r).Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	wantURLs := []string{base, base + "/post-1"}
	if !reflect.DeepEqual(got.URLs, wantURLs) {
		t.Errorf("Crawl() URLs = %v, want %v", got.URLs, wantURLs)
	}
}

func TestCrawler_CrawlMaxPages(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	pages := map[string]fakePage{
		base: {html: "<html></html>", links: []string{
			base + "/a", base + "/b", base + "/c", base + "/d",
		}},
	}
	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		pages[base+p] = fakePage{html: "<html></html>"}
	}
	r := &fakeRenderer{pages: pages}

	got, err := New(r, WithMaxPages(2)).Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(got.Snapshots) != 2 {
		t.Errorf("Crawl() snapshots = %d, want 2", len(got.Snapshots))
	}
	if len(r.calls) != 2 {
		t.Errorf("renderer called %d times, want 2", len(r.calls))
	}
}

func TestCrawler_CrawlMaxPagesCountsFailedPages(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	pages := map[string]fakePage{
		base: {html: "<html></html>", links: []string{
			base + "/a", base + "/b", base + "/c", base + "/d",
		}},
	}
	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		pages[base+p] = fakePage{err: errors.New("timeout")}
	}
	r := &fakeRenderer{pages: pages}

	got, err := New(r, WithMaxPages(2)).Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	// A page spends budget when it is visited, not when its render
	// succeeds, or a site of broken pages would be crawled without limit.
	if len(got.URLs) != 2 {
		t.Errorf("Crawl() URLs = %v, want 2 entries", got.URLs)
	}
	if len(r.calls) != 2 {
		t.Errorf("renderer called %d times, want 2", len(r.calls))
	}
	if len(got.Snapshots) != 1 {
		t.Errorf("Crawl() snapshots = %d, want 1 (only the base rendered)", len(got.Snapshots))
	}
}

func TestCrawler_CrawlMaxPagesZero(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{pages: map[string]fakePage{}}

	got, err := New(r, WithMaxPages(0)).Crawl(context.Background(), "https://old.example")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(got.URLs) != 0 || len(got.Snapshots) != 0 {
		t.Errorf("Crawl() with zero budget = %+v, want empty result", got)
	}
	if len(r.calls) != 0 {
		t.Errorf("renderer called %d times with zero budget, want 0", len(r.calls))
	}
}

func TestCrawler_CrawlSkipsFailedPages(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	r := &fakeRenderer{pages: map[string]fakePage{
		base: {html: "<html></html>", links: []string{
			base + "/broken",
			base + "/fine",
		}},
		base + "/broken": {err: errors.New("timeout")},
		base + "/fine":   {html: "<html>fine</html>"},
	}}

	got, err := New(r).Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	// Failed pages stay in the URL list but get no snapshot.
	wantURLs := []string{base, base + "/broken", base + "/fine"}
	if !reflect.DeepEqual(got.URLs, wantURLs) {
		t.Errorf("Crawl() URLs = %v, want %v", got.URLs, wantURLs)
	}
	if _, ok := got.Snapshots[base+"/broken"]; ok {
		t.Error("Crawl() stored a snapshot for a failed page")
	}
	if len(got.Snapshots) != 2 {
		t.Errorf("Crawl() snapshots = %d, want 2", len(got.Snapshots))
	}
}

func TestCrawler_CrawlDeduplicates(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	r := &fakeRenderer{pages: map[string]fakePage{
		base: {html: "<html></html>", links: []string{
			base + "/page", base + "/page", base + "/page",
		}},
		base + "/page": {html: "<html></html>", links: []string{base}},
	}}

	got, err := New(r).Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(r.calls) != 2 {
		t.Errorf("renderer called %d times, want 2 (each URL once)", len(r.calls))
	}
	if len(got.URLs) != 2 {
		t.Errorf("Crawl() URLs = %v, want 2 unique entries", got.URLs)
	}
}

func TestCrawler_CrawlIgnorePatterns(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	r := &fakeRenderer{pages: map[string]fakePage{
		base: {html: "<html></html>", links: []string{
			base + "/admin/users",
			base + "/docs/guide.pdf",
			base + "/docs/guide",
		}},
		base + "/docs/guide": {html: "<html></html>"},
	}}

	c := New(r, WithIgnorePatterns([]string{"/admin/*", "*.pdf"}))
	got, err := c.Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	sort.Strings(got.URLs)
	wantURLs := []string{base, base + "/docs/guide"}
	if !reflect.DeepEqual(got.URLs, wantURLs) {
		t.Errorf("Crawl() URLs = %v, want %v", got.URLs, wantURLs)
	}
}

func TestCrawler_CrawlReusable(t *testing.T) {
	t.Parallel()

	base := "https://old.example"
	r := &fakeRenderer{pages: map[string]fakePage{
		base: {html: "<html></html>"},
	}}
	c := New(r)

	first, err := c.Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("first Crawl() error = %v", err)
	}
	second, err := c.Crawl(context.Background(), base)
	if err != nil {
		t.Fatalf("second Crawl() error = %v", err)
	}

	if !reflect.DeepEqual(first.URLs, second.URLs) {
		t.Errorf("repeated crawls differ: %v vs %v", first.URLs, second.URLs)
	}
	if len(second.Snapshots) != 1 {
		t.Errorf("second Crawl() snapshots = %d, want 1", len(second.Snapshots))
	}
}

func TestCrawler_CrawlCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &fakeRenderer{pages: map[string]fakePage{}}
	_, err := New(r).Crawl(ctx, "https://old.example")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Crawl() error = %v, want context.Canceled", err)
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/admin/*", "/admin/dashboard", true},
		{"/admin/*", "/admin", true},
		{"/admin/*", "/administrator", false},
		{"*.pdf", "/docs/file.pdf", true},
		{"*.pdf", "/docs/file.html", false},
		{"/api/v?", "/api/v1", true},
		{"/api/v?", "/api/v10", false},
		{"/logout*", "/logout-confirm", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}
