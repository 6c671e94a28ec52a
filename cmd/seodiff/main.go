// Package main provides the entry point for the seodiff CLI.
//
// seodiff crawls two versions of a website (typically the live site and
// a migrated staging site), captures the SEO-relevant fields of every
// page, and reports field-level differences between matching pages.
//
// Usage:
//
//	seodiff compare --old https://example.com --new https://staging.example.com
//	seodiff scan https://example.com
//
// See --help for all available options.
package main

// main is the entry point for seodiff.
func main() {
	Execute()
}
