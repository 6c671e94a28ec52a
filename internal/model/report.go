package model

import "time"

// Change types recorded in a FieldChange.
const (
	// ChangeTypeContent marks a field whose value differs between the
	// two sites.
	ChangeTypeContent = "content_change"
)

// Extraction failure sides recorded on a ComparisonResult.
const (
	// ExtractionFailedOld marks a page whose old-site extraction failed.
	ExtractionFailedOld = "old"

	// ExtractionFailedNew marks a page whose new-site extraction failed.
	ExtractionFailedNew = "new"

	// ExtractionFailedBoth marks a page that failed extraction on both sides.
	ExtractionFailedBoth = "both"
)

// FieldChange is a single field-level difference between the old and
// new versions of a page.
type FieldChange struct {
	// Field is the schema field name (see the Field* constants).
	Field string `json:"field"`

	// OldValue is the field value extracted from the old site.
	OldValue string `json:"oldValue"`

	// NewValue is the field value extracted from the new site.
	NewValue string `json:"newValue"`

	// ChangeType classifies the difference. Currently always
	// ChangeTypeContent.
	ChangeType string `json:"changeType"`
}

// ComparisonResult holds the field-level differences for one common
// page. Results with no changes and no extraction failure are dropped
// from the report, so not every common URL appears.
type ComparisonResult struct {
	// URL is the page URL on the new domain (the rewritten URL).
	URL string `json:"url"`

	// Changes lists field differences in schema order.
	Changes []FieldChange `json:"changes"`

	// ExtractionFailed is set when field extraction failed for the old
	// side, new side, or both. A tagged result carries no field changes
	// because empty-vs-real comparisons would be spurious.
	ExtractionFailed string `json:"extractionFailed,omitempty"`
}

// HasChanges reports whether the result carries any field-level change.
func (c *ComparisonResult) HasChanges() bool {
	return len(c.Changes) > 0
}

// ChangedFields returns the names of all changed fields in order.
func (c *ComparisonResult) ChangedFields() []string {
	fields := make([]string, len(c.Changes))
	for i, change := range c.Changes {
		fields[i] = change.Field
	}
	return fields
}

// TestInfo identifies one comparison run.
type TestInfo struct {
	// Timestamp is when the comparison was performed.
	Timestamp time.Time `json:"timestamp"`

	// OldDomain is the base URL of the original site.
	OldDomain string `json:"oldDomain"`

	// NewDomain is the base URL of the migrated site.
	NewDomain string `json:"newDomain"`

	// Version is the seodiff version that produced the report.
	Version string `json:"version,omitempty"`
}

// Summary holds the aggregate counts of a comparison run.
type Summary struct {
	// OldWebsiteUrls is the number of URLs discovered on the old site.
	OldWebsiteUrls int `json:"oldWebsiteUrls"`

	// NewWebsiteUrls is the number of URLs discovered on the new site.
	NewWebsiteUrls int `json:"newWebsiteUrls"`

	// MissingUrls is the number of old-site URLs absent from the new site.
	MissingUrls int `json:"missingUrls"`

	// NewUrls is the number of new-site URLs with no old-site counterpart.
	NewUrls int `json:"newUrls"`

	// PagesWithChanges is the number of common pages with at least one
	// field-level change.
	PagesWithChanges int `json:"pagesWithChanges"`

	// PagesWithExtractionFailures is the number of common pages tagged
	// as extraction failures instead of being diffed.
	PagesWithExtractionFailures int `json:"pagesWithExtractionFailures"`
}

// MigrationReport is the final artifact of a comparison run.
// It is built once by the aggregator and immutable afterwards;
// persistence is the caller's concern.
type MigrationReport struct {
	// TestInfo identifies the run.
	TestInfo TestInfo `json:"testInfo"`

	// Summary holds the aggregate counts.
	Summary Summary `json:"summary"`

	// MissingUrls lists rewritten old-site URLs absent from the new
	// site, sorted.
	MissingUrls []string `json:"missingUrls"`

	// NewUrls lists new-site URLs with no old-site counterpart, sorted.
	NewUrls []string `json:"newUrls"`

	// PageComparisons lists per-page results that carry changes or an
	// extraction-failure tag. Pages identical on both sides are omitted.
	PageComparisons []ComparisonResult `json:"pageComparisons"`

	// SEOImpact maps every tracked field to the number of pages on
	// which it changed. Fields with no changes are present with a zero
	// count so the report always covers the full schema.
	SEOImpact map[string]int `json:"seoImpact"`
}

// TotalChanges returns the total number of field-level changes across
// all page comparisons.
func (r *MigrationReport) TotalChanges() int {
	total := 0
	for _, c := range r.PageComparisons {
		total += len(c.Changes)
	}
	return total
}

// HasDifferences reports whether the two sites differ at all:
// missing pages, new pages, or field changes.
func (r *MigrationReport) HasDifferences() bool {
	return len(r.MissingUrls) > 0 || len(r.NewUrls) > 0 || len(r.PageComparisons) > 0
}
