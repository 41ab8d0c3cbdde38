package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type bdcStorage struct {
	store  *Store
	logger *common.Logger
}

// NewBDCStorage creates a new BDCStore backed by BadgerHold.
func NewBDCStorage(store *Store, logger *common.Logger) *bdcStorage {
	return &bdcStorage{store: store, logger: logger}
}

func (s *bdcStorage) GetBDC(_ context.Context, cik string) (*models.BDC, error) {
	var bdc models.BDC
	err := s.store.db.Get(cik, &bdc)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("bdc '%s' not found", cik)
		}
		return nil, fmt.Errorf("failed to get bdc '%s': %w", cik, err)
	}
	return &bdc, nil
}

func (s *bdcStorage) UpsertBDC(_ context.Context, bdc *models.BDC) error {
	if bdc.CIK == "" {
		return fmt.Errorf("bdc cik is required")
	}
	if err := s.store.db.Upsert(bdc.CIK, bdc); err != nil {
		return fmt.Errorf("failed to upsert bdc '%s': %w", bdc.CIK, err)
	}
	s.logger.Debug().Str("cik", bdc.CIK).Str("ticker", bdc.Ticker).Msg("BDC upserted")
	return nil
}

func (s *bdcStorage) ListBDCs(_ context.Context) ([]*models.BDC, error) {
	var bdcs []models.BDC
	if err := s.store.db.Find(&bdcs, nil); err != nil {
		return nil, fmt.Errorf("failed to list bdcs: %w", err)
	}
	sort.Slice(bdcs, func(i, j int) bool {
		return strings.ToLower(bdcs[i].Name) < strings.ToLower(bdcs[j].Name)
	})
	out := make([]*models.BDC, len(bdcs))
	for i := range bdcs {
		out[i] = &bdcs[i]
	}
	return out, nil
}
