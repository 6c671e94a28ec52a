package diff

import (
	"time"

	"github.com/seodiff/seodiff/internal/model"
)

// Aggregator assembles the final migration report from reconciliation
// and per-page comparison results.
type Aggregator struct {
	// schema seeds the field-impact map.
	schema model.Schema

	// version is stamped into the report's test info.
	version string
}

// NewAggregator creates an Aggregator for the given schema.
func NewAggregator(schema model.Schema, version string) *Aggregator {
	return &Aggregator{schema: schema, version: version}
}

// Aggregate builds the migration report. Comparison results with no
// changes and no failure tag are dropped so the report lists only
// pages worth looking at; the summary still counts every URL.
func (a *Aggregator) Aggregate(
	oldDomain, newDomain string,
	oldURLCount, newURLCount int,
	rec *Reconciliation,
	comparisons []model.ComparisonResult,
) *model.MigrationReport {
	report := &model.MigrationReport{
		TestInfo: model.TestInfo{
			Timestamp: time.Now().UTC(),
			OldDomain: oldDomain,
			NewDomain: newDomain,
			Version:   a.version,
		},
		MissingUrls:     rec.Missing,
		NewUrls:         rec.New,
		PageComparisons: make([]model.ComparisonResult, 0, len(comparisons)),
		SEOImpact:       make(map[string]int, a.schema.Len()),
	}

	// Every tracked field appears in the impact map, zero or not.
	for _, field := range a.schema.Fields() {
		report.SEOImpact[field] = 0
	}

	pagesWithChanges := 0
	pagesWithFailures := 0
	for _, c := range comparisons {
		if c.ExtractionFailed != "" {
			pagesWithFailures++
			report.PageComparisons = append(report.PageComparisons, c)
			continue
		}
		if !c.HasChanges() {
			continue
		}
		pagesWithChanges++
		report.PageComparisons = append(report.PageComparisons, c)
		for _, change := range c.Changes {
			report.SEOImpact[change.Field]++
		}
	}

	report.Summary = model.Summary{
		OldWebsiteUrls:              oldURLCount,
		NewWebsiteUrls:              newURLCount,
		MissingUrls:                 len(rec.Missing),
		NewUrls:                     len(rec.New),
		PagesWithChanges:            pagesWithChanges,
		PagesWithExtractionFailures: pagesWithFailures,
	}

	return report
}
