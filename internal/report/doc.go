// Package report renders migration reports in the supported output
// formats.
//
// The Writer interface abstracts the destination and format; JSON is
// the machine-readable artifact, Markdown is for sharing, and the text
// writer is the default terminal output.
package report
