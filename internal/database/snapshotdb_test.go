package database

import (
	"context"
	"testing"
	"time"

	"github.com/seodiff/seodiff/internal/model"
)

func openTestDB(t *testing.T) *SnapshotDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestOpen_RequireExisting(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.CreateIfNotExists = false

	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Fatal("Open() with CreateIfNotExists=false succeeded on an empty directory")
	}
}

func TestSnapshotDB_SaveAndGetLatestCrawl(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	result := &model.CrawlResult{
		BaseURL: "https://old.example",
		URLs:    []string{"https://old.example", "https://old.example/about"},
		Snapshots: map[string]string{
			"https://old.example":       "<html>home</html>",
			"https://old.example/about": "<html>about</html>",
		},
	}

	id, err := db.SaveCrawlResult(ctx, result)
	if err != nil {
		t.Fatalf("SaveCrawlResult() error = %v", err)
	}
	if id == 0 {
		t.Error("SaveCrawlResult() returned zero session ID")
	}

	got, err := db.GetLatestCrawl(ctx, "https://old.example")
	if err != nil {
		t.Fatalf("GetLatestCrawl() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetLatestCrawl() = nil for a stored session")
	}

	if len(got.URLs) != 2 {
		t.Errorf("GetLatestCrawl() URLs = %v", got.URLs)
	}
	if got.Snapshots["https://old.example/about"] != "<html>about</html>" {
		t.Errorf("GetLatestCrawl() snapshot mismatch: %q", got.Snapshots["https://old.example/about"])
	}
}

func TestSnapshotDB_GetLatestCrawlReturnsNewest(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	for _, html := range []string{"<html>v1</html>", "<html>v2</html>"} {
		_, err := db.SaveCrawlResult(ctx, &model.CrawlResult{
			BaseURL:   "https://old.example",
			URLs:      []string{"https://old.example"},
			Snapshots: map[string]string{"https://old.example": html},
		})
		if err != nil {
			t.Fatalf("SaveCrawlResult() error = %v", err)
		}
	}

	got, err := db.GetLatestCrawl(ctx, "https://old.example")
	if err != nil {
		t.Fatalf("GetLatestCrawl() error = %v", err)
	}
	if got.Snapshots["https://old.example"] != "<html>v2</html>" {
		t.Errorf("GetLatestCrawl() returned stale session: %q", got.Snapshots["https://old.example"])
	}
}

func TestSnapshotDB_GetLatestCrawlUnknownSite(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	got, err := db.GetLatestCrawl(context.Background(), "https://never-crawled.example")
	if err != nil {
		t.Fatalf("GetLatestCrawl() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetLatestCrawl() = %+v for an unknown site, want nil", got)
	}
}

func TestSnapshotDB_ListSessions(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.SaveCrawlResult(ctx, &model.CrawlResult{
		BaseURL:   "https://old.example",
		URLs:      []string{"https://old.example"},
		Snapshots: map[string]string{"https://old.example": "<html></html>"},
	})
	if err != nil {
		t.Fatalf("SaveCrawlResult() error = %v", err)
	}

	sessions, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ListSessions() = %d sessions, want 1", len(sessions))
	}
	if sessions[0].BaseURL != "https://old.example" || sessions[0].PageCount != 1 {
		t.Errorf("ListSessions() metadata = %+v", sessions[0])
	}
	if sessions[0].Timestamp.IsZero() {
		t.Error("ListSessions() timestamp is zero")
	}
}

func TestSnapshotDB_SaveAndGetReport(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	report := &model.MigrationReport{
		TestInfo: model.TestInfo{
			Timestamp: time.Now().UTC(),
			OldDomain: "https://old.example",
			NewDomain: "https://new.example",
		},
		Summary:     model.Summary{MissingUrls: 1},
		MissingUrls: []string{"https://new.example/legacy"},
		NewUrls:     []string{},
		PageComparisons: []model.ComparisonResult{
			{
				URL: "https://new.example/a",
				Changes: []model.FieldChange{
					{Field: model.FieldTitle, OldValue: "A", NewValue: "B", ChangeType: model.ChangeTypeContent},
				},
			},
		},
		SEOImpact: map[string]int{model.FieldTitle: 1},
	}

	if err := db.SaveReport(ctx, report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	list, err := db.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListReports() = %d reports, want 1", len(list))
	}
	if list[0].OldDomain != "https://old.example" || list[0].NewDomain != "https://new.example" {
		t.Errorf("ListReports() metadata = %+v", list[0])
	}
	if list[0].ChangeSummary["missingUrls"] != 1 {
		t.Errorf("ListReports() summary = %v", list[0].ChangeSummary)
	}

	got, err := db.GetReportByID(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("GetReportByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetReportByID() = nil for a stored report")
	}
	if got.TestInfo.OldDomain != report.TestInfo.OldDomain {
		t.Errorf("GetReportByID() old domain = %q", got.TestInfo.OldDomain)
	}
	if len(got.PageComparisons) != 1 || got.PageComparisons[0].Changes[0].NewValue != "B" {
		t.Errorf("GetReportByID() comparisons = %+v", got.PageComparisons)
	}
}

func TestSnapshotDB_GetReportByIDNotFound(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	got, err := db.GetReportByID(context.Background(), 4242)
	if err != nil {
		t.Fatalf("GetReportByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetReportByID() = %+v for an unknown ID, want nil", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		isZero bool
	}{
		{"2026-08-31 10:30:00", false},
		{"2026-08-31T10:30:00Z", false},
		{"not a timestamp", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.in)
			if got.IsZero() != tt.isZero {
				t.Errorf("parseTimestamp(%q) = %v", tt.in, got)
			}
		})
	}
}
