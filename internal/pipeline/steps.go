package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/seodiff/seodiff/internal/crawler"
	"github.com/seodiff/seodiff/internal/diff"
	"github.com/seodiff/seodiff/internal/extract"
	"github.com/seodiff/seodiff/internal/model"
)

// CrawlStep crawls both sites and stores the results in the state.
//
// Design decision: The two crawls run concurrently via errgroup
// because:
// 1. They target different hosts and share no state
// 2. Wall-clock time halves on the dominant phase of a run
// 3. errgroup's context cancels the surviving crawl when one fails
type CrawlStep struct {
	// oldCrawler crawls the original site.
	oldCrawler *crawler.Crawler

	// newCrawler crawls the migrated site.
	newCrawler *crawler.Crawler

	// logger for structured logging.
	logger *slog.Logger
}

// NewCrawlStep creates a crawl step with a crawler per site.
func NewCrawlStep(oldCrawler, newCrawler *crawler.Crawler, logger *slog.Logger) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlStep{
		oldCrawler: oldCrawler,
		newCrawler: newCrawler,
		logger:     logger,
	}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls both sites concurrently and waits for both to finish.
func (s *CrawlStep) Do(ctx context.Context, state *State) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := s.oldCrawler.Crawl(ctx, state.OldBaseURL)
		if err != nil {
			return fmt.Errorf("crawl old site %s: %w", state.OldBaseURL, err)
		}
		state.OldCrawl = result
		return nil
	})

	g.Go(func() error {
		result, err := s.newCrawler.Crawl(ctx, state.NewBaseURL)
		if err != nil {
			return fmt.Errorf("crawl new site %s: %w", state.NewBaseURL, err)
		}
		state.NewCrawl = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("crawl finished",
		"old_urls", len(state.OldCrawl.URLs),
		"new_urls", len(state.NewCrawl.URLs),
	)
	return nil
}

// ReconcileStep matches the two crawled URL sets.
type ReconcileStep struct {
	// reconciler performs the URL rewriting and matching.
	reconciler *diff.Reconciler
}

// NewReconcileStep creates a reconcile step.
func NewReconcileStep(reconciler *diff.Reconciler) *ReconcileStep {
	return &ReconcileStep{reconciler: reconciler}
}

// Name returns the step name.
func (s *ReconcileStep) Name() string {
	return "reconcile"
}

// Do splits the URL sets into missing, new, and common pages.
func (s *ReconcileStep) Do(_ context.Context, state *State) error {
	if state.OldCrawl == nil || state.NewCrawl == nil {
		return fmt.Errorf("reconcile requires both crawls to have run")
	}

	state.Reconciliation = s.reconciler.Reconcile(state.OldCrawl.URLs, state.NewCrawl.URLs)
	return nil
}

// CompareStep extracts and diffs the SEO fields of every common page.
type CompareStep struct {
	// extractor pulls SEO fields out of page markup.
	extractor *extract.Extractor

	// differ compares the two field records of a page.
	differ *diff.Differ
}

// NewCompareStep creates a compare step for the given schema.
func NewCompareStep(schema model.Schema) *CompareStep {
	return &CompareStep{
		extractor: extract.NewExtractor(),
		differ:    diff.NewDiffer(schema),
	}
}

// Name returns the step name.
func (s *CompareStep) Name() string {
	return "compare"
}

// Do compares every common page. A page that was discovered but never
// rendered has no snapshot; its side is treated as an extraction
// failure so the page is tagged rather than diffed against nothing.
func (s *CompareStep) Do(ctx context.Context, state *State) error {
	if state.Reconciliation == nil {
		return fmt.Errorf("compare requires reconciliation to have run")
	}

	state.Comparisons = make([]model.ComparisonResult, 0, len(state.Reconciliation.Common))
	for _, pair := range state.Reconciliation.Common {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		oldRecord := s.extractSide(state.OldCrawl, pair.OldURL)
		newRecord := s.extractSide(state.NewCrawl, pair.NewURL)
		state.Comparisons = append(state.Comparisons, s.differ.Compare(pair.NewURL, oldRecord, newRecord))
	}

	return nil
}

// extractSide extracts the field record for one side of a pair.
func (s *CompareStep) extractSide(crawl *model.CrawlResult, pageURL string) model.FieldRecord {
	html, ok := crawl.Snapshots[pageURL]
	if !ok {
		return model.FieldRecord{ExtractionFailed: true}
	}
	return s.extractor.Extract(html)
}

// AggregateStep assembles the final migration report.
type AggregateStep struct {
	// aggregator builds the report from the accumulated state.
	aggregator *diff.Aggregator
}

// NewAggregateStep creates an aggregate step.
func NewAggregateStep(schema model.Schema, version string) *AggregateStep {
	return &AggregateStep{aggregator: diff.NewAggregator(schema, version)}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do builds the report from the state.
func (s *AggregateStep) Do(_ context.Context, state *State) error {
	if state.Reconciliation == nil || state.Comparisons == nil {
		return fmt.Errorf("aggregate requires comparison to have run")
	}

	state.Report = s.aggregator.Aggregate(
		state.OldBaseURL,
		state.NewBaseURL,
		len(state.OldCrawl.URLs),
		len(state.NewCrawl.URLs),
		state.Reconciliation,
		state.Comparisons,
	)
	return nil
}

// NewComparePipeline assembles the standard four-step comparison
// pipeline: crawl, reconcile, compare, aggregate.
func NewComparePipeline(
	oldCrawler, newCrawler *crawler.Crawler,
	reconciler *diff.Reconciler,
	schema model.Schema,
	version string,
	logger *slog.Logger,
) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewCrawlStep(oldCrawler, newCrawler, logger),
		NewReconcileStep(reconciler),
		NewCompareStep(schema),
		NewAggregateStep(schema, version),
	)
	return p
}
