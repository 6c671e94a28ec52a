// Package log provides the structured loggers used across seodiff.
//
// Loggers wrap a standard slog handler with markup truncation: crawl
// and render code logs page context freely, and the handler keeps
// multi-megabyte HTML snapshots from flooding the output.
package log
