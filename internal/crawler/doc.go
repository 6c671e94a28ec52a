// Package crawler walks a website through a renderer and collects page
// snapshots.
//
// The crawl is scoped to URLs under the configured base URL, follows a
// breadth-first worklist, and treats per-page render failures as
// skippable: a page that cannot be rendered is recorded as discovered
// but produces no snapshot.
package crawler
