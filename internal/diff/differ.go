package diff

import (
	"github.com/seodiff/seodiff/internal/model"
)

// Differ compares the extracted SEO fields of one page across the two
// sites.
type Differ struct {
	// schema is the ordered set of fields to compare.
	schema model.Schema
}

// NewDiffer creates a Differ for the given schema.
func NewDiffer(schema model.Schema) *Differ {
	return &Differ{schema: schema}
}

// Compare diffs the old and new field records of one page and returns
// the result keyed by the page's new-domain URL.
//
// When either record is flagged as an extraction failure, the result
// carries a failure tag instead of field changes: diffing an empty
// record against a real one would report every field as changed, which
// tells the reader nothing about the page.
func (d *Differ) Compare(newURL string, oldRecord, newRecord model.FieldRecord) model.ComparisonResult {
	result := model.ComparisonResult{
		URL:     newURL,
		Changes: make([]model.FieldChange, 0, d.schema.Len()),
	}

	switch {
	case oldRecord.ExtractionFailed && newRecord.ExtractionFailed:
		result.ExtractionFailed = model.ExtractionFailedBoth
		return result
	case oldRecord.ExtractionFailed:
		result.ExtractionFailed = model.ExtractionFailedOld
		return result
	case newRecord.ExtractionFailed:
		result.ExtractionFailed = model.ExtractionFailedNew
		return result
	}

	for _, field := range d.schema.Fields() {
		oldValue := oldRecord.Get(field)
		newValue := newRecord.Get(field)
		if oldValue == newValue {
			continue
		}
		result.Changes = append(result.Changes, model.FieldChange{
			Field:      field,
			OldValue:   oldValue,
			NewValue:   newValue,
			ChangeType: model.ChangeTypeContent,
		})
	}

	return result
}
