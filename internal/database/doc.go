// Package database provides SQLite-based storage for crawl snapshots
// and migration reports.
//
// Crawls are stored as sessions so a site can be snapshotted now and
// compared later; reports are stored as JSON for the history command.
package database
