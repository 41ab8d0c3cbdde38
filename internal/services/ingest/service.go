// Package ingest populates the entity and holdings store from EDGAR
// filings, with a synthetic fallback when extraction runs dry.
package ingest

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/bobmcallan/bdcwatch/internal/sectors"
)

// DefaultMinHoldings is the extraction floor: fewer usable rows than this
// and the filing text is judged unparseable, triggering synthetic fallback.
const DefaultMinHoldings = 5

// filingForms are the forms carrying a schedule of investments.
var filingForms = []string{"10-Q", "10-K"}

// Service implements interfaces.IngestService.
type Service struct {
	storage      interfaces.StorageManager
	filingClient interfaces.FilingClient
	logger       *common.Logger
	minHoldings  int
	rng          *rand.Rand
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithMinHoldings sets the extraction floor below which synthetic data is
// substituted.
func WithMinHoldings(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.minHoldings = n
		}
	}
}

// WithRand fixes the synthetic generator. Without it each entity gets a
// generator seeded from its CIK, so repeated runs stay deterministic.
func WithRand(rng *rand.Rand) ServiceOption {
	return func(s *Service) {
		s.rng = rng
	}
}

// NewService creates a new ingest service. The filing client may be nil, in
// which case every entity falls back to synthetic holdings.
func NewService(storage interfaces.StorageManager, filingClient interfaces.FilingClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage:      storage,
		filingClient: filingClient,
		logger:       logger,
		minHoldings:  DefaultMinHoldings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestAll runs ingestion for every seeded BDC.
func (s *Service) IngestAll(ctx context.Context) ([]models.IngestResult, error) {
	results := make([]models.IngestResult, 0, len(seedBDCs))

	for _, seed := range seedBDCs {
		result, err := s.IngestOne(ctx, seed.CIK)
		if err != nil {
			results = append(results, models.IngestResult{
				CIK:    seed.CIK,
				Ticker: seed.Ticker,
				Status: models.IngestStatusError,
				Error:  err.Error(),
			})
			continue
		}
		results = append(results, *result)

		if ctx.Err() != nil {
			break
		}
	}

	return results, nil
}

// IngestOne ingests a single BDC: resolve identity, pull the latest filing,
// extract holdings, fall back to synthetic below the floor, then replace
// stored holdings wholesale.
func (s *Service) IngestOne(ctx context.Context, cik string) (*models.IngestResult, error) {
	entity, err := s.resolveEntity(ctx, cik)
	if err != nil {
		return nil, err
	}

	result := &models.IngestResult{CIK: entity.CIK, Ticker: entity.Ticker}

	raw, period, source := s.extract(ctx, entity.CIK)

	if len(raw) < s.minHoldings {
		if source == models.SourceEDGAR {
			s.logger.Warn().
				Str("cik", entity.CIK).
				Int("extracted", len(raw)).
				Int("floor", s.minHoldings).
				Msg("Extraction below floor, substituting synthetic holdings")
		}
		raw = syntheticHoldings(s.generator(entity.CIK))
		period = latestQuarterEnd(time.Now())
		source = models.SourceSynthetic
	}

	holdings := make([]models.Holding, len(raw))
	for i, r := range raw {
		holdings[i] = models.Holding{
			PeriodDate:     period,
			Company:        r.Company,
			IndustryRaw:    r.IndustryRaw,
			IndustrySector: string(sectors.Classify(r.IndustryRaw)),
			FairValue:      r.FairValue,
			Source:         source,
		}
	}

	if err := s.storage.HoldingStore().ReplaceHoldings(ctx, entity.CIK, holdings); err != nil {
		return nil, fmt.Errorf("failed to replace holdings for %s: %w", entity.CIK, err)
	}

	result.Holdings = len(holdings)
	result.Period = period
	if source == models.SourceSynthetic {
		result.Status = models.IngestStatusSynthetic
	} else {
		result.Status = models.IngestStatusIngested
	}

	s.logger.Info().
		Str("cik", entity.CIK).
		Str("ticker", entity.Ticker).
		Str("status", result.Status).
		Str("period", period).
		Int("holdings", len(holdings)).
		Msg("Ingested BDC")

	return result, nil
}

// resolveEntity loads the stored entity or creates it from the seed list.
// Metrics on an existing record survive re-ingestion untouched.
func (s *Service) resolveEntity(ctx context.Context, cik string) (*models.BDC, error) {
	if existing, err := s.storage.BDCStore().GetBDC(ctx, cik); err == nil {
		return existing, nil
	}

	seed := findSeed(cik)
	if seed == nil {
		return nil, fmt.Errorf("unknown cik %s: not stored and not in the seed list", cik)
	}

	entity := &models.BDC{CIK: seed.CIK, Ticker: seed.Ticker, Name: seed.Name}
	if err := s.storage.BDCStore().UpsertBDC(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to create entity %s: %w", cik, err)
	}
	return entity, nil
}

// extract attempts filing-based extraction. Any failure along the way
// returns an empty set; the caller's floor check turns that into synthetic
// fallback rather than a hard error.
func (s *Service) extract(ctx context.Context, cik string) ([]models.RawHolding, string, string) {
	if s.filingClient == nil {
		return nil, "", models.SourceSynthetic
	}

	filings, err := s.filingClient.GetRecentFilings(ctx, cik, filingForms, 5)
	if err != nil {
		s.logger.Warn().Err(err).Str("cik", cik).Msg("Filing listing failed")
		return nil, "", models.SourceEDGAR
	}

	for _, filing := range filings {
		if filing.DocumentURL == "" {
			continue
		}

		text, err := s.filingClient.GetDocumentText(ctx, filing)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("cik", cik).
				Str("accession", filing.AccessionNumber).
				Msg("Document fetch failed, trying next filing")
			continue
		}

		raw := ParseHoldings(text)
		if len(raw) == 0 {
			continue
		}

		period := filing.ReportDate
		if period == "" {
			period = filing.FilingDate
		}
		return raw, period, models.SourceEDGAR
	}

	return nil, "", models.SourceEDGAR
}

func (s *Service) generator(cik string) *rand.Rand {
	if s.rng != nil {
		return s.rng
	}
	return rand.New(rand.NewSource(seedFromCIK(cik)))
}

// Ensure Service implements IngestService
var _ interfaces.IngestService = (*Service)(nil)
