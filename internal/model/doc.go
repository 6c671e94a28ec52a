// Package model defines the data structures shared across the seodiff
// engine: page snapshots captured during a crawl, the fixed SEO field
// schema, per-page comparison results, and the final migration report.
//
// All types in this package are plain data. Behavior that operates on
// them (crawling, extraction, diffing, aggregation) lives in the
// corresponding engine packages.
package model
