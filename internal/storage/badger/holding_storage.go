package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"
)

type holdingStorage struct {
	store  *Store
	logger *common.Logger
}

// NewHoldingStorage creates a new HoldingStore backed by BadgerHold.
func NewHoldingStorage(store *Store, logger *common.Logger) *holdingStorage {
	return &holdingStorage{store: store, logger: logger}
}

func (s *holdingStorage) GetHoldingsByCIK(_ context.Context, cik string) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.store.db.Find(&holdings, badgerhold.Where("BDCCIK").Eq(cik).Index("BDCCIK")); err != nil {
		return nil, fmt.Errorf("failed to get holdings for '%s': %w", cik, err)
	}
	// Newest period first; period dates are YYYY-MM-DD so lexicographic order
	// is date order.
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].PeriodDate > holdings[j].PeriodDate
	})
	return holdings, nil
}

// ReplaceHoldings deletes an entity's holdings and inserts the new set.
// Delete-then-insert, not transactional: a crash in between leaves the
// entity with zero holdings, surfacing as "no data" on the next read.
func (s *holdingStorage) ReplaceHoldings(ctx context.Context, cik string, holdings []models.Holding) error {
	if _, err := s.DeleteHoldingsByCIK(ctx, cik); err != nil {
		return err
	}

	for i := range holdings {
		holdings[i].BDCCIK = cik
		if holdings[i].ID == "" {
			holdings[i].ID = uuid.New().String()
		}
		if err := s.store.db.Insert(holdings[i].ID, &holdings[i]); err != nil {
			return fmt.Errorf("failed to insert holding for '%s': %w", cik, err)
		}
	}

	s.logger.Debug().Str("cik", cik).Int("holdings", len(holdings)).Msg("Holdings replaced")
	return nil
}

func (s *holdingStorage) DeleteHoldingsByCIK(_ context.Context, cik string) (int, error) {
	var existing []models.Holding
	query := badgerhold.Where("BDCCIK").Eq(cik).Index("BDCCIK")
	if err := s.store.db.Find(&existing, query); err != nil {
		return 0, fmt.Errorf("failed to find holdings for '%s': %w", cik, err)
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := s.store.db.DeleteMatching(&models.Holding{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete holdings for '%s': %w", cik, err)
	}
	return len(existing), nil
}
