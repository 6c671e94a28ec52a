package model

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"
)

func TestSchemaVariants(t *testing.T) {
	t.Parallel()

	t.Run("full schema has 13 fields", func(t *testing.T) {
		t.Parallel()
		s := FullSchema()
		if s.Len() != 13 {
			t.Errorf("expected 13 fields, got %d", s.Len())
		}
		if s.Name() != SchemaNameFull {
			t.Errorf("expected name %q, got %q", SchemaNameFull, s.Name())
		}
	})

	t.Run("core schema omits image and twitter fields", func(t *testing.T) {
		t.Parallel()
		s := CoreSchema()
		if s.Len() != 9 {
			t.Errorf("expected 9 fields, got %d", s.Len())
		}
		for _, field := range s.Fields() {
			switch field {
			case FieldOGImage, FieldTwitterCard, FieldTwitterTitle, FieldTwitterDescription:
				t.Errorf("core schema should not contain %q", field)
			}
		}
	})

	t.Run("schema order starts with title", func(t *testing.T) {
		t.Parallel()
		if FullSchema().Fields()[0] != FieldTitle {
			t.Error("expected title first in schema order")
		}
	})
}

func TestSchemaByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		length int
	}{
		{"core name", SchemaNameCore, SchemaNameCore, 9},
		{"full name", SchemaNameFull, SchemaNameFull, 13},
		{"empty falls back to full", "", SchemaNameFull, 13},
		{"unknown falls back to full", "bogus", SchemaNameFull, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := SchemaByName(tt.input)
			if s.Name() != tt.want {
				t.Errorf("SchemaByName(%q).Name() = %q, want %q", tt.input, s.Name(), tt.want)
			}
			if s.Len() != tt.length {
				t.Errorf("SchemaByName(%q).Len() = %d, want %d", tt.input, s.Len(), tt.length)
			}
		})
	}
}

func TestFieldRecordGet(t *testing.T) {
	t.Parallel()

	record := FieldRecord{
		Title:       "Home",
		Description: "A home page",
		OGImage:     "https://example.com/og.png",
	}

	t.Run("returns set values", func(t *testing.T) {
		t.Parallel()
		if got := record.Get(FieldTitle); got != "Home" {
			t.Errorf("Get(title) = %q, want %q", got, "Home")
		}
		if got := record.Get(FieldOGImage); got != "https://example.com/og.png" {
			t.Errorf("Get(ogImage) = %q", got)
		}
	})

	t.Run("returns empty for unset field", func(t *testing.T) {
		t.Parallel()
		if got := record.Get(FieldCanonical); got != "" {
			t.Errorf("Get(canonical) = %q, want empty", got)
		}
	})

	t.Run("returns empty for unknown field", func(t *testing.T) {
		t.Parallel()
		if got := record.Get("notAField"); got != "" {
			t.Errorf("Get(notAField) = %q, want empty", got)
		}
	})

	t.Run("every schema field is addressable", func(t *testing.T) {
		t.Parallel()
		full := FieldRecord{
			Title: "a", Description: "b", Keywords: "c", H1: "d", H2: "e",
			Canonical: "f", Robots: "g", OGTitle: "h", OGDescription: "i",
			OGImage: "j", TwitterCard: "k", TwitterTitle: "l", TwitterDescription: "m",
		}
		for _, field := range FullSchema().Fields() {
			if full.Get(field) == "" {
				t.Errorf("Get(%q) returned empty for a fully populated record", field)
			}
		}
	})
}

func TestFieldRecordEmpty(t *testing.T) {
	t.Parallel()

	t.Run("zero record is empty", func(t *testing.T) {
		t.Parallel()
		r := FieldRecord{}
		if !r.Empty() {
			t.Error("expected zero record to be empty")
		}
	})

	t.Run("failed record with no values is empty", func(t *testing.T) {
		t.Parallel()
		r := FieldRecord{ExtractionFailed: true}
		if !r.Empty() {
			t.Error("expected failed record with no values to be empty")
		}
	})

	t.Run("record with a value is not empty", func(t *testing.T) {
		t.Parallel()
		r := FieldRecord{H2: "Section"}
		if r.Empty() {
			t.Error("expected record with a value to be non-empty")
		}
	})
}

func TestHashContent(t *testing.T) {
	t.Parallel()

	t.Run("empty markup hashes to empty string", func(t *testing.T) {
		t.Parallel()
		if got := HashContent(""); got != "" {
			t.Errorf("HashContent(\"\") = %q, want empty", got)
		}
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		t.Parallel()
		a := HashContent("<html></html>")
		b := HashContent("<html></html>")
		if a != b {
			t.Errorf("expected equal hashes, got %q and %q", a, b)
		}
		if len(a) != 64 {
			t.Errorf("expected 64 hex characters, got %d", len(a))
		}
	})

	t.Run("different markup yields different hash", func(t *testing.T) {
		t.Parallel()
		if HashContent("<html>a</html>") == HashContent("<html>b</html>") {
			t.Error("expected different hashes for different markup")
		}
	})
}

func TestNewPageSnapshot(t *testing.T) {
	t.Parallel()

	snap := NewPageSnapshot("https://example.com", "<html></html>")
	if snap.URL != "https://example.com" {
		t.Errorf("expected URL to be preserved, got %q", snap.URL)
	}
	if snap.Hash != HashContent("<html></html>") {
		t.Error("expected hash to match HashContent of the markup")
	}
}

func TestCrawlResult(t *testing.T) {
	t.Parallel()

	result := &CrawlResult{
		BaseURL: "https://example.com",
		URLs:    []string{"https://example.com", "https://example.com/broken"},
		Snapshots: map[string]string{
			"https://example.com": "<html></html>",
		},
	}

	t.Run("page count counts snapshots only", func(t *testing.T) {
		t.Parallel()
		if got := result.PageCount(); got != 1 {
			t.Errorf("PageCount() = %d, want 1", got)
		}
	})

	t.Run("has url covers failed pages", func(t *testing.T) {
		t.Parallel()
		if !result.HasURL("https://example.com/broken") {
			t.Error("expected discovered-but-failed URL to be present")
		}
		if result.HasURL("https://example.com/missing") {
			t.Error("expected unknown URL to be absent")
		}
	})
}

func TestNewSnapshotArtifact(t *testing.T) {
	t.Parallel()

	result := &CrawlResult{
		BaseURL: "https://example.com",
		URLs:    []string{"https://example.com/z", "https://example.com/a"},
		Snapshots: map[string]string{
			"https://example.com/a": "<html>a</html>",
		},
	}

	artifact := NewSnapshotArtifact(result)

	t.Run("urls are sorted", func(t *testing.T) {
		t.Parallel()
		if !sort.StringsAreSorted(artifact.URLs) {
			t.Errorf("expected sorted URLs, got %v", artifact.URLs)
		}
	})

	t.Run("snapshot keys are sanitized", func(t *testing.T) {
		t.Parallel()
		for key := range artifact.Snapshots {
			if strings.ContainsAny(key, ":/") {
				t.Errorf("expected sanitized key, got %q", key)
			}
		}
	})

	t.Run("source result is not mutated", func(t *testing.T) {
		t.Parallel()
		if result.URLs[0] != "https://example.com/z" {
			t.Error("expected original URL order to be preserved")
		}
	})
}

func TestSanitizeURLKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/about", "https___example.com_about"},
		{"plain-text_key.html", "plain-text_key.html"},
		{"a b?c=d", "a_b_c_d"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeURLKey(tt.input); got != tt.want {
				t.Errorf("SanitizeURLKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestComparisonResult(t *testing.T) {
	t.Parallel()

	t.Run("has changes", func(t *testing.T) {
		t.Parallel()
		c := ComparisonResult{
			URL: "https://new.example.com/about",
			Changes: []FieldChange{
				{Field: FieldTitle, OldValue: "About", NewValue: "About Us", ChangeType: ChangeTypeContent},
				{Field: FieldH1, OldValue: "About", NewValue: "Hello", ChangeType: ChangeTypeContent},
			},
		}
		if !c.HasChanges() {
			t.Error("expected HasChanges to be true")
		}
		fields := c.ChangedFields()
		if len(fields) != 2 || fields[0] != FieldTitle || fields[1] != FieldH1 {
			t.Errorf("unexpected changed fields: %v", fields)
		}
	})

	t.Run("tagged result has no changes", func(t *testing.T) {
		t.Parallel()
		c := ComparisonResult{URL: "https://new.example.com/x", ExtractionFailed: ExtractionFailedBoth}
		if c.HasChanges() {
			t.Error("expected HasChanges to be false")
		}
	})
}

func TestMigrationReport(t *testing.T) {
	t.Parallel()

	report := &MigrationReport{
		TestInfo: TestInfo{OldDomain: "https://a", NewDomain: "https://b"},
		Summary:  Summary{OldWebsiteUrls: 2, NewWebsiteUrls: 2},
		PageComparisons: []ComparisonResult{
			{
				URL: "https://b/about",
				Changes: []FieldChange{
					{Field: FieldTitle, ChangeType: ChangeTypeContent},
					{Field: FieldDescription, ChangeType: ChangeTypeContent},
				},
			},
			{URL: "https://b/contact", ExtractionFailed: ExtractionFailedNew},
		},
		SEOImpact: map[string]int{FieldTitle: 1, FieldDescription: 1},
	}

	t.Run("total changes sums per-page changes", func(t *testing.T) {
		t.Parallel()
		if got := report.TotalChanges(); got != 2 {
			t.Errorf("TotalChanges() = %d, want 2", got)
		}
	})

	t.Run("has differences", func(t *testing.T) {
		t.Parallel()
		if !report.HasDifferences() {
			t.Error("expected HasDifferences to be true")
		}

		clean := &MigrationReport{}
		if clean.HasDifferences() {
			t.Error("expected empty report to have no differences")
		}
	})

	t.Run("serializes with stable top-level keys", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(report)
		if err != nil {
			t.Fatalf("failed to marshal report: %v", err)
		}

		var decoded map[string]json.RawMessage
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to unmarshal report: %v", err)
		}

		for _, key := range []string{"testInfo", "summary", "missingUrls", "newUrls", "pageComparisons", "seoImpact"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("expected top-level key %q", key)
			}
		}
	})
}
