// Package diff reconciles the URL sets of two crawled sites and
// compares the SEO fields of their common pages.
//
// Reconciliation rewrites old-site URLs onto the new domain by prefix
// substitution, splits the two URL sets into missing, new, and common
// pages, and the differ then reports field-level changes per common
// page. The aggregator assembles the final migration report.
package diff
