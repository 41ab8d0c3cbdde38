// Package interfaces defines service contracts for bdcwatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

// BDCService builds and serves the composite BDC views.
type BDCService interface {
	// BuildViews assembles the composite records: sector exposure merged
	// with scalar metrics per entity, sorted and filtered per options.
	BuildViews(ctx context.Context, opts ViewOptions) ([]*models.BDCView, error)

	// GetView returns the composite record for one entity, or a not-found
	// error.
	GetView(ctx context.Context, cik string) (*models.BDCView, error)

	// Averages computes null-excluding mean values per scalar metric over
	// the given views. Metrics with no populated values are omitted.
	Averages(views []*models.BDCView) map[string]float64

	// RefreshAll walks all entities sequentially, refreshing scalar metrics
	// from the quote collaborator with a minimum delay between calls.
	// Failures are recorded per entity and never abort the run.
	RefreshAll(ctx context.Context) (*models.RefreshSummary, error)
}

// ViewOptions configures sorting and filtering of composite views.
type ViewOptions struct {
	SortKey      string // "name", "total_fair_value", a metric name, or "sector:<name>"
	Descending   bool
	SectorFilter string // restrict to entities with >0 exposure; "" or "all" = no filter
}

// WatchlistService manages the analyzed-ticker cache.
type WatchlistService interface {
	// List returns all cached items, newest first.
	List(ctx context.Context) ([]models.WatchlistItem, error)

	// GetOrRefresh returns the cached analysis when fresh (analyzed within
	// the freshness window), otherwise fetches quote data and AI analysis
	// and upserts the result.
	GetOrRefresh(ctx context.Context, ticker string) (*models.WatchlistItem, error)

	// AnalyzeBatch processes up to 25 tickers sequentially, accumulating a
	// parallel error list. Batch size violations are rejected before any I/O.
	AnalyzeBatch(ctx context.Context, tickers []string) ([]models.WatchlistItem, []string, error)

	// Remove deletes by normalized ticker; removing an absent ticker is not
	// an error.
	Remove(ctx context.Context, ticker string) error
}

// IngestService populates the entity and holdings store.
type IngestService interface {
	// IngestAll runs ingestion for every seeded BDC, returning per-entity
	// results.
	IngestAll(ctx context.Context) ([]models.IngestResult, error)

	// IngestOne ingests a single BDC by CIK: fetch the latest filing,
	// extract holdings heuristically, fall back to synthetic data below the
	// minimum row count, then replace the stored holdings wholesale.
	IngestOne(ctx context.Context, cik string) (*models.IngestResult, error)
}
