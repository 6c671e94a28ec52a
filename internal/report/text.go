package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seodiff/seodiff/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables full field values instead of truncated ones.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with untruncated field values.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.MigrationReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeURLSection(&sb, "MISSING URLS", report.MissingUrls)
	w.writeURLSection(&sb, "NEW URLS", report.NewUrls)
	w.writeComparisons(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.MigrationReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SEO MIGRATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Old Site:  %s\n", report.TestInfo.OldDomain))
	sb.WriteString(fmt.Sprintf("New Site:  %s\n", report.TestInfo.NewDomain))
	sb.WriteString(fmt.Sprintf("Compared:  %s\n", report.TestInfo.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeSummary writes the aggregate counts section.
func (w *TextWriter) writeSummary(sb *strings.Builder, report *model.MigrationReport) {
	w.sectionHeader(sb, "SUMMARY")

	s := report.Summary
	sb.WriteString(fmt.Sprintf("  Old site URLs:        %d\n", s.OldWebsiteUrls))
	sb.WriteString(fmt.Sprintf("  New site URLs:        %d\n", s.NewWebsiteUrls))
	sb.WriteString(fmt.Sprintf("  Missing URLs:         %d\n", s.MissingUrls))
	sb.WriteString(fmt.Sprintf("  New URLs:             %d\n", s.NewUrls))
	sb.WriteString(fmt.Sprintf("  Pages with changes:   %d\n", s.PagesWithChanges))
	sb.WriteString(fmt.Sprintf("  Extraction failures:  %d\n", s.PagesWithExtractionFailures))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:                %d field changes\n", report.TotalChanges()))
	sb.WriteString("\n")
}

// writeURLSection writes a bullet list of URLs under a section header.
func (w *TextWriter) writeURLSection(sb *strings.Builder, title string, urls []string) {
	if len(urls) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, title)

	if len(urls) == 0 {
		sb.WriteString("  None\n")
	} else {
		for _, u := range urls {
			sb.WriteString(fmt.Sprintf("  [-] %s\n", u))
		}
	}
	sb.WriteString("\n")
}

// writeComparisons writes the per-page change listings.
func (w *TextWriter) writeComparisons(sb *strings.Builder, report *model.MigrationReport) {
	if len(report.PageComparisons) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "PAGE COMPARISONS")

	if len(report.PageComparisons) == 0 {
		sb.WriteString("  All common pages are identical\n\n")
		return
	}

	for _, c := range report.PageComparisons {
		sb.WriteString(fmt.Sprintf("  * %s\n", c.URL))

		if c.ExtractionFailed != "" {
			sb.WriteString(fmt.Sprintf("    EXTRACTION FAILED (%s site)\n", c.ExtractionFailed))
			continue
		}

		for _, change := range c.Changes {
			sb.WriteString(fmt.Sprintf("    %s:\n", change.Field))
			sb.WriteString(fmt.Sprintf("      old: %s\n", w.formatValue(change.OldValue)))
			sb.WriteString(fmt.Sprintf("      new: %s\n", w.formatValue(change.NewValue)))
		}
	}
	sb.WriteString("\n")
}

// formatValue renders one field value for terminal display.
func (w *TextWriter) formatValue(v string) string {
	if v == "" {
		return "(empty)"
	}
	if w.verbose {
		return v
	}
	return truncateString(v, 80)
}

// sectionHeader writes a dashed section divider with a title.
func (w *TextWriter) sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seodiff\n")
	sb.WriteString("https://github.com/seodiff/seodiff\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
