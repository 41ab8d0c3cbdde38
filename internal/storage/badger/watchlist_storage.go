package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// watchlistKey is the fixed document key — the watchlist is a single keyed
// collection serialized as a whole on every write.
const watchlistKey = "watchlist"

type watchlistStorage struct {
	store  *Store
	logger *common.Logger
}

// NewWatchlistStorage creates a new WatchlistStore backed by BadgerHold.
func NewWatchlistStorage(store *Store, logger *common.Logger) *watchlistStorage {
	return &watchlistStorage{store: store, logger: logger}
}

func (s *watchlistStorage) GetWatchlist(_ context.Context) (*models.Watchlist, error) {
	var watchlist models.Watchlist
	err := s.store.db.Get(watchlistKey, &watchlist)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			// Absence is valid — an empty watchlist, not an error.
			return &models.Watchlist{Items: []models.WatchlistItem{}}, nil
		}
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	if watchlist.Items == nil {
		watchlist.Items = []models.WatchlistItem{}
	}
	return &watchlist, nil
}

func (s *watchlistStorage) SaveWatchlist(_ context.Context, watchlist *models.Watchlist) error {
	// Read existing to preserve CreatedAt and increment Version
	var existing models.Watchlist
	err := s.store.db.Get(watchlistKey, &existing)
	if err == nil {
		watchlist.CreatedAt = existing.CreatedAt
		watchlist.Version = existing.Version + 1
	} else {
		watchlist.Version = 1
		if watchlist.CreatedAt.IsZero() {
			watchlist.CreatedAt = time.Now()
		}
	}

	watchlist.UpdatedAt = time.Now()

	if err := s.store.db.Upsert(watchlistKey, watchlist); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	s.logger.Debug().Int("items", len(watchlist.Items)).Int("version", watchlist.Version).Msg("Watchlist saved")
	return nil
}
