package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/seodiff/seodiff/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.MigrationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFieldImpact(md, report)
	w.writeURLSections(md, report)
	w.writePageComparisons(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.MigrationReport) {
	md.H1("SEO Migration Report")
	md.PlainText("")

	rows := [][]string{
		{"Old Site", "`" + report.TestInfo.OldDomain + "`"},
		{"New Site", "`" + report.TestInfo.NewDomain + "`"},
		{"Compared", report.TestInfo.Timestamp.Format("2006-01-02 15:04:05 MST")},
	}
	if report.TestInfo.Version != "" {
		rows = append(rows, []string{"Tool Version", report.TestInfo.Version})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the aggregate counts and a headline alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.MigrationReport) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Old site URLs", strconv.Itoa(s.OldWebsiteUrls)},
			{"New site URLs", strconv.Itoa(s.NewWebsiteUrls)},
			{"Missing URLs", strconv.Itoa(s.MissingUrls)},
			{"New URLs", strconv.Itoa(s.NewUrls)},
			{"Pages with changes", strconv.Itoa(s.PagesWithChanges)},
			{"Extraction failures", strconv.Itoa(s.PagesWithExtractionFailures)},
			{"**Total field changes**", "**" + strconv.Itoa(report.TotalChanges()) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case s.MissingUrls > 0:
		md.Cautionf(
			"%d page(s) from the old site have no counterpart on the new site. Missing pages lose their rankings entirely.",
			s.MissingUrls,
		)
	case s.PagesWithChanges > 0:
		md.Warningf(
			"%d page(s) have SEO field changes that should be reviewed before launch.",
			s.PagesWithChanges,
		)
	case s.PagesWithExtractionFailures > 0:
		md.Importantf(
			"%d page(s) could not be analyzed. Re-run the comparison or inspect them manually.",
			s.PagesWithExtractionFailures,
		)
	default:
		md.Tip("No SEO differences detected between the two sites.")
	}
	md.PlainText("")
}

// writeFieldImpact writes the per-field change counts in schema order.
func (w *MarkdownWriter) writeFieldImpact(md *markdown.Markdown, report *model.MigrationReport) {
	md.H2("Field Impact")
	md.PlainText("")

	rows := make([][]string, 0, len(report.SEOImpact))
	for _, field := range model.FullSchema().Fields() {
		count, ok := report.SEOImpact[field]
		if !ok {
			continue
		}
		rows = append(rows, []string{field, strconv.Itoa(count)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Field", "Pages Changed"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeURLSections writes the missing and new URL lists.
func (w *MarkdownWriter) writeURLSections(md *markdown.Markdown, report *model.MigrationReport) {
	md.H2("Missing URLs")
	md.PlainText("")
	if len(report.MissingUrls) == 0 {
		md.PlainText("None.")
	} else {
		md.BulletList(report.MissingUrls...)
	}
	md.PlainText("")

	md.H2("New URLs")
	md.PlainText("")
	if len(report.NewUrls) == 0 {
		md.PlainText("None.")
	} else {
		md.BulletList(report.NewUrls...)
	}
	md.PlainText("")
}

// writePageComparisons writes a section per changed or failed page.
func (w *MarkdownWriter) writePageComparisons(md *markdown.Markdown, report *model.MigrationReport) {
	md.H2("Page Comparisons")
	md.PlainText("")

	if len(report.PageComparisons) == 0 {
		md.PlainText("All common pages are identical.")
		md.PlainText("")
		return
	}

	for _, c := range report.PageComparisons {
		md.H3(c.URL)
		md.PlainText("")

		if c.ExtractionFailed != "" {
			md.Warningf("Field extraction failed (%s site). This page was not diffed.", c.ExtractionFailed)
			md.PlainText("")
			continue
		}

		rows := make([][]string, len(c.Changes))
		for i, change := range c.Changes {
			rows[i] = []string{
				change.Field,
				truncateString(orDash(change.OldValue), 60),
				truncateString(orDash(change.NewValue), 60),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Field", "Old Value", "New Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seodiff](https://github.com/seodiff/seodiff)*")
}

// orDash substitutes a dash for empty values so table cells stay visible.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
