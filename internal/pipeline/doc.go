// Package pipeline orchestrates a comparison run as a sequence of
// steps: crawl both sites, reconcile their URL sets, compare the
// common pages, and aggregate the report.
//
// Steps share a State value that accumulates intermediate results, so
// individual steps stay testable in isolation.
package pipeline
