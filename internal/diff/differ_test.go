package diff

import (
	"reflect"
	"testing"

	"github.com/seodiff/seodiff/internal/model"
)

func TestDiffer_Compare(t *testing.T) {
	t.Parallel()

	d := NewDiffer(model.FullSchema())

	oldRecord := model.FieldRecord{
		Title:       "Acme Widgets",
		Description: "Widgets for every occasion",
		H1:          "Welcome",
	}
	newRecord := model.FieldRecord{
		Title:       "Acme Widgets",
		Description: "Widgets, now cheaper",
		H1:          "Welcome",
		Robots:      "noindex",
	}

	got := d.Compare("https://new.example/", oldRecord, newRecord)

	if got.URL != "https://new.example/" {
		t.Errorf("Compare() URL = %q", got.URL)
	}

	want := []model.FieldChange{
		{
			Field:      model.FieldDescription,
			OldValue:   "Widgets for every occasion",
			NewValue:   "Widgets, now cheaper",
			ChangeType: model.ChangeTypeContent,
		},
		{
			Field:      model.FieldRobots,
			OldValue:   "",
			NewValue:   "noindex",
			ChangeType: model.ChangeTypeContent,
		},
	}
	if !reflect.DeepEqual(got.Changes, want) {
		t.Errorf("Compare() changes = %+v, want %+v", got.Changes, want)
	}
}

func TestDiffer_CompareIdenticalRecords(t *testing.T) {
	t.Parallel()

	d := NewDiffer(model.FullSchema())
	record := model.FieldRecord{Title: "Same", Description: "Same everywhere"}

	got := d.Compare("https://new.example/", record, record)

	if got.HasChanges() {
		t.Errorf("Compare() of identical records reported changes: %+v", got.Changes)
	}
	if got.ExtractionFailed != "" {
		t.Errorf("Compare() tagged identical records as failed: %q", got.ExtractionFailed)
	}
}

func TestDiffer_CompareSchemaOrder(t *testing.T) {
	t.Parallel()

	d := NewDiffer(model.FullSchema())

	// Change fields out of schema order; output must follow the schema.
	oldRecord := model.FieldRecord{TwitterCard: "summary", Title: "A", H1: "X"}
	newRecord := model.FieldRecord{TwitterCard: "player", Title: "B", H1: "Y"}

	got := d.Compare("https://new.example/", oldRecord, newRecord)

	wantOrder := []string{model.FieldTitle, model.FieldH1, model.FieldTwitterCard}
	if !reflect.DeepEqual(got.ChangedFields(), wantOrder) {
		t.Errorf("Compare() field order = %v, want %v", got.ChangedFields(), wantOrder)
	}
}

func TestDiffer_CompareReducedSchema(t *testing.T) {
	t.Parallel()

	d := NewDiffer(model.CoreSchema())

	// Twitter fields differ but are outside the core schema.
	oldRecord := model.FieldRecord{TwitterCard: "summary"}
	newRecord := model.FieldRecord{TwitterCard: "player"}

	got := d.Compare("https://new.example/", oldRecord, newRecord)

	if got.HasChanges() {
		t.Errorf("Compare() reported out-of-schema changes: %+v", got.Changes)
	}
}

func TestDiffer_CompareSwapSymmetry(t *testing.T) {
	t.Parallel()

	d := NewDiffer(model.FullSchema())

	a := model.FieldRecord{
		Title:       "Acme Widgets",
		Description: "Widgets for every occasion",
		H1:          "Welcome",
		Canonical:   "https://old.example/",
		OGTitle:     "Acme",
	}
	b := model.FieldRecord{
		Title:       "Acme Widgets",
		Description: "Widgets, now cheaper",
		H1:          "Hello",
		Canonical:   "https://new.example/",
		Robots:      "noindex",
	}

	forward := d.Compare("https://new.example/", a, b)
	reverse := d.Compare("https://new.example/", b, a)

	// Swapping the records flags the same fields with old/new values
	// exchanged.
	if !reflect.DeepEqual(forward.ChangedFields(), reverse.ChangedFields()) {
		t.Errorf("swapped Compare() flagged different fields: %v vs %v",
			forward.ChangedFields(), reverse.ChangedFields())
	}
	for i, fc := range forward.Changes {
		rc := reverse.Changes[i]
		if fc.OldValue != rc.NewValue || fc.NewValue != rc.OldValue {
			t.Errorf("field %s: forward %q->%q, reverse %q->%q, want mirrored values",
				fc.Field, fc.OldValue, fc.NewValue, rc.OldValue, rc.NewValue)
		}
	}
}

func TestDiffer_CompareExtractionFailures(t *testing.T) {
	t.Parallel()

	d := NewDiffer(model.FullSchema())
	real := model.FieldRecord{Title: "Real page"}
	failed := model.FieldRecord{ExtractionFailed: true}

	tests := []struct {
		name      string
		oldRecord model.FieldRecord
		newRecord model.FieldRecord
		want      string
	}{
		{name: "old failed", oldRecord: failed, newRecord: real, want: model.ExtractionFailedOld},
		{name: "new failed", oldRecord: real, newRecord: failed, want: model.ExtractionFailedNew},
		{name: "both failed", oldRecord: failed, newRecord: failed, want: model.ExtractionFailedBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := d.Compare("https://new.example/", tt.oldRecord, tt.newRecord)

			if got.ExtractionFailed != tt.want {
				t.Errorf("Compare() tag = %q, want %q", got.ExtractionFailed, tt.want)
			}
			// A tagged result must not carry spurious field changes.
			if got.HasChanges() {
				t.Errorf("Compare() tagged result has changes: %+v", got.Changes)
			}
		})
	}
}
