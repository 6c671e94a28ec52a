package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/seodiff/seodiff/internal/config"
	"github.com/seodiff/seodiff/internal/database"
	"github.com/seodiff/seodiff/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists snapshot sessions and migration reports stored in
// the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshot sessions and migration reports",
		Long: `History lists the snapshot sessions and migration reports stored in
the local database by previous 'seodiff scan' and 'seodiff compare'
runs.

Examples:
  # List all stored sessions and reports
  seodiff history

  # Only entries for one domain
  seodiff history --domain https://example.com

  # Show the 5 most recent reports
  seodiff history --limit 5

  # Dump a stored report as JSON (use the ID from the listing)
  seodiff history --report-id 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("domain", "d", "",
		"Only show entries whose base URL matches this domain")
	cmd.Flags().IntP("limit", "l", 0,
		"Maximum number of reports to list (0 for all)")
	cmd.Flags().Int64P("report-id", "r", 0,
		"Print the full stored report with this ID as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	domain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	reportID, err := cmd.Flags().GetInt64("report-id")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if reportID > 0 {
		return dumpStoredReport(ctx, db, reportID)
	}

	if err := listSnapshotSessions(ctx, db, domain); err != nil {
		return err
	}
	return listMigrationReports(ctx, db, domain, limit)
}

// dumpStoredReport prints a stored migration report as pretty JSON.
func dumpStoredReport(ctx context.Context, db *database.SnapshotDB, id int64) error {
	stored, err := db.GetReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get report %d: %w", id, err)
	}
	if stored == nil {
		return fmt.Errorf("report with ID %d not found (use 'seodiff history' to see available IDs)", id)
	}

	writer := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	_, err = writer.Write(stored)
	return err
}

// listSnapshotSessions lists stored crawl sessions, newest first.
func listSnapshotSessions(ctx context.Context, db *database.SnapshotDB, domain string) error {
	sessions, err := db.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions = filterSessions(sessions, domain)

	if len(sessions) == 0 {
		fmt.Println("No snapshot sessions found in the database.")
		fmt.Println("\nUse 'seodiff scan <url>' to snapshot a site.")
		return nil
	}

	fmt.Printf("Snapshot sessions (%d):\n\n", len(sessions))
	fmt.Printf("  %-6s  %-20s  %-8s  %s\n", "ID", "Date", "Pages", "Site")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, meta := range sessions {
		fmt.Printf("  %-6d  %-20s  %-8d  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.PageCount,
			meta.BaseURL,
		)
	}
	fmt.Println()

	return nil
}

// listMigrationReports lists stored migration reports, newest first.
func listMigrationReports(ctx context.Context, db *database.SnapshotDB, domain string, limit int) error {
	reports, err := db.ListReports(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	reports = filterReports(reports, domain)

	if len(reports) == 0 {
		fmt.Println("No migration reports found in the database.")
		fmt.Println("\nUse 'seodiff compare' to compare two sites.")
		return nil
	}

	fmt.Printf("Migration reports (%d):\n\n", len(reports))
	fmt.Printf("  %-6s  %-20s  %-24s  %s\n", "ID", "Date", "Changes", "Sites")
	fmt.Println("  " + strings.Repeat("-", 90))
	for _, meta := range reports {
		fmt.Printf("  %-6d  %-20s  %-24s  %s -> %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatChangeSummary(meta.ChangeSummary),
			meta.OldDomain,
			meta.NewDomain,
		)
	}
	fmt.Println("\nUse 'seodiff history --report-id <id>' to print a full report.")

	return nil
}

// filterSessions keeps sessions whose base URL contains the domain.
// An empty domain keeps everything.
func filterSessions(sessions []database.SessionMetadata, domain string) []database.SessionMetadata {
	if domain == "" {
		return sessions
	}
	var out []database.SessionMetadata
	for _, meta := range sessions {
		if strings.Contains(meta.BaseURL, domain) {
			out = append(out, meta)
		}
	}
	return out
}

// filterReports keeps reports where either side contains the domain.
// An empty domain keeps everything.
func filterReports(reports []database.ReportMetadata, domain string) []database.ReportMetadata {
	if domain == "" {
		return reports
	}
	var out []database.ReportMetadata
	for _, meta := range reports {
		if strings.Contains(meta.OldDomain, domain) || strings.Contains(meta.NewDomain, domain) {
			out = append(out, meta)
		}
	}
	return out
}

// formatChangeSummary formats the stored headline counts into a short
// human-readable string.
func formatChangeSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "N/A"
	}

	var parts []string
	if v := summary["missingUrls"]; v > 0 {
		parts = append(parts, fmt.Sprintf("missing:%d", v))
	}
	if v := summary["newUrls"]; v > 0 {
		parts = append(parts, fmt.Sprintf("new:%d", v))
	}
	if v := summary["pagesWithChanges"]; v > 0 {
		parts = append(parts, fmt.Sprintf("pages:%d", v))
	}
	if v := summary["totalChanges"]; v > 0 {
		parts = append(parts, fmt.Sprintf("fields:%d", v))
	}

	if len(parts) == 0 {
		return "no differences"
	}
	return strings.Join(parts, " ")
}
