// Package interfaces defines service contracts for bdcwatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	BDCStore() BDCStore
	HoldingStore() HoldingStore
	WatchlistStore() WatchlistStore
	KeyValueStore() KeyValueStore

	// Lifecycle
	Close() error
}

// BDCStore persists BDC entities keyed by CIK.
type BDCStore interface {
	// GetBDC returns the entity, or a not-found error when absent.
	GetBDC(ctx context.Context, cik string) (*models.BDC, error)

	// UpsertBDC creates or replaces the entity by CIK.
	UpsertBDC(ctx context.Context, bdc *models.BDC) error

	// ListBDCs returns all entities ordered by name.
	ListBDCs(ctx context.Context) ([]*models.BDC, error)
}

// HoldingStore persists per-BDC holdings. Ingestion replaces holdings
// wholesale: delete-then-insert, never an incremental patch. The sequence is
// not transactional — a crash in between surfaces as "no data" on next read.
type HoldingStore interface {
	// GetHoldingsByCIK returns all holdings for an entity, newest period first.
	GetHoldingsByCIK(ctx context.Context, cik string) ([]models.Holding, error)

	// ReplaceHoldings deletes the entity's holdings and inserts the new set.
	ReplaceHoldings(ctx context.Context, cik string, holdings []models.Holding) error

	// DeleteHoldingsByCIK removes all holdings for an entity.
	DeleteHoldingsByCIK(ctx context.Context, cik string) (int, error)
}

// WatchlistStore persists the watchlist as a single keyed document,
// serialized as a whole on every write.
type WatchlistStore interface {
	// GetWatchlist returns the watchlist document; an empty document when
	// none has been saved yet.
	GetWatchlist(ctx context.Context) (*models.Watchlist, error)

	// SaveWatchlist overwrites the whole document.
	SaveWatchlist(ctx context.Context, watchlist *models.Watchlist) error
}

// KeyValueStore manages system-level key-value settings (API keys etc).
type KeyValueStore interface {
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error
	DeleteSystemKV(ctx context.Context, key string) error
}
