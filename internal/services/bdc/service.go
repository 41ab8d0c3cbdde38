// Package bdc assembles the composite BDC dashboard records: sector
// exposure aggregated from filed holdings merged with scalar metrics.
package bdc

import (
	"context"
	"fmt"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

// Service implements interfaces.BDCService.
type Service struct {
	storage     interfaces.StorageManager
	quoteClient interfaces.QuoteClient
	logger      *common.Logger
	minDelay    float64 // minimum seconds between refresh quote calls
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithMinDelay sets the minimum delay between quote calls during a refresh
// run, expressed in seconds.
func WithMinDelay(seconds float64) ServiceOption {
	return func(s *Service) {
		if seconds > 0 {
			s.minDelay = seconds
		}
	}
}

// NewService creates a new BDC service. The quote client may be nil, in
// which case refresh operations report errors per entity.
func NewService(storage interfaces.StorageManager, quoteClient interfaces.QuoteClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage:     storage,
		quoteClient: quoteClient,
		logger:      logger,
		minDelay:    0.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildViews assembles composite records for all stored entities, then sorts
// and filters per options. Entities with neither holdings exposure nor any
// scalar metric are dropped: an empty shell row tells the reader nothing.
func (s *Service) BuildViews(ctx context.Context, opts interfaces.ViewOptions) ([]*models.BDCView, error) {
	bdcs, err := s.storage.BDCStore().ListBDCs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bdcs: %w", err)
	}

	views := make([]*models.BDCView, 0, len(bdcs))
	for _, b := range bdcs {
		view, err := s.buildView(ctx, b)
		if err != nil {
			return nil, err
		}
		if view.TotalFairValue == 0 && !b.HasAnyMetric() {
			s.logger.Debug().Str("cik", b.CIK).Msg("Excluding entity with no data")
			continue
		}
		views = append(views, view)
	}

	views = Rank(views, opts)

	return views, nil
}

// GetView returns the composite record for one entity.
func (s *Service) GetView(ctx context.Context, cik string) (*models.BDCView, error) {
	b, err := s.storage.BDCStore().GetBDC(ctx, cik)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, b)
}

func (s *Service) buildView(ctx context.Context, b *models.BDC) (*models.BDCView, error) {
	holdings, err := s.storage.HoldingStore().GetHoldingsByCIK(ctx, b.CIK)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings for %s: %w", b.CIK, err)
	}

	exposure := Aggregate(holdings)

	return &models.BDCView{
		CIK:    b.CIK,
		Ticker: b.Ticker,
		Name:   b.Name,

		DividendYield:    b.DividendYield,
		DividendGrowth3Y: b.DividendGrowth3Y,
		NAVPerShare:      b.NAVPerShare,
		Price:            b.Price,
		PriceToNAV:       b.PriceToNAV,
		NonAccrualPct:    b.NonAccrualPct,
		TotalAssets:      b.TotalAssets,
		DebtToEquity:     b.DebtToEquity,
		NIIYield:         b.NIIYield,

		TotalFairValue:    exposure.TotalFairValue,
		PeriodDate:        exposure.PeriodDate,
		SectorPercentages: exposure.SectorPercentages,
	}, nil
}

// Ensure Service implements BDCService
var _ interfaces.BDCService = (*Service)(nil)
