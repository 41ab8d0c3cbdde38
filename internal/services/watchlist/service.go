// Package watchlist manages the analyzed-ticker cache: market snapshots
// paired with AI commentary, reused while fresh and re-fetched when stale.
package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

// MaxBatchSize caps a single analyze request.
const MaxBatchSize = 25

const placeholderNote = "Analysis unavailable"

// placeholderEvaluation replaces AI commentary when the analysis collaborator
// is unreachable. Market data in the item is still real.
const placeholderEvaluation = "AI analysis was unavailable for this refresh. " +
	"Market data is current; qualitative commentary will return on the next successful analysis."

// Service implements interfaces.WatchlistService.
type Service struct {
	storage        interfaces.StorageManager
	quoteClient    interfaces.QuoteClient
	analysisClient interfaces.AnalysisClient
	logger         *common.Logger
	validate       *validator.Validate
}

// NewService creates a new watchlist service. The analysis client may be
// nil; items then carry placeholder commentary.
func NewService(storage interfaces.StorageManager, quoteClient interfaces.QuoteClient, analysisClient interfaces.AnalysisClient, logger *common.Logger) *Service {
	return &Service{
		storage:        storage,
		quoteClient:    quoteClient,
		analysisClient: analysisClient,
		logger:         logger,
		validate:       validator.New(),
	}
}

// List returns all cached items, newest first.
func (s *Service) List(ctx context.Context) ([]models.WatchlistItem, error) {
	wl, err := s.storage.WatchlistStore().GetWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return wl.Items, nil
}

// GetOrRefresh returns the cached analysis for a ticker when analyzed within
// the freshness window, otherwise fetches a quote and AI analysis and
// upserts the result.
func (s *Service) GetOrRefresh(ctx context.Context, ticker string) (*models.WatchlistItem, error) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	wl, err := s.storage.WatchlistStore().GetWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	if cached, _ := wl.FindByTicker(ticker); cached != nil && common.IsFresh(cached.AnalyzedAt, common.FreshnessWatchlist) {
		s.logger.Debug().Str("ticker", ticker).Time("analyzed_at", cached.AnalyzedAt).Msg("Watchlist cache hit")
		item := *cached
		return &item, nil
	}

	if s.quoteClient == nil {
		return nil, fmt.Errorf("quote client not configured")
	}

	quote, err := s.quoteClient.GetQuote(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}

	item := models.WatchlistItem{
		Ticker:           ticker,
		Name:             quote.Name,
		Price:            quote.Price,
		MarketCap:        quote.MarketCap,
		Sector:           quote.Sector,
		Industry:         quote.Industry,
		PE:               quote.PE,
		DividendYield:    quote.DividendYield,
		YTDChangePct:     quote.YTDChangePct,
		OneYearChangePct: quote.OneYearChangePct,
		AnalyzedAt:       time.Now(),
	}

	analysis := s.analyze(ctx, ticker, quote)
	item.Risks = analysis.Risks
	item.Strengths = analysis.Strengths
	item.Evaluation = analysis.Evaluation
	item.Estimates = analysis.Estimates

	if _, idx := wl.FindByTicker(ticker); idx >= 0 {
		wl.Items[idx] = item
	} else {
		wl.Items = append([]models.WatchlistItem{item}, wl.Items...)
	}

	if err := s.storage.WatchlistStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Watchlist item refreshed")

	return &item, nil
}

// analyze runs the AI collaborator and degrades to placeholder commentary on
// any failure. The quote data stays real either way.
func (s *Service) analyze(ctx context.Context, ticker string, quote *models.Quote) *models.Analysis {
	if s.analysisClient == nil {
		return placeholderAnalysis()
	}

	analysis, err := s.analysisClient.AnalyzeTicker(ctx, ticker, quote)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("AI analysis failed, using placeholders")
		return placeholderAnalysis()
	}
	return analysis
}

func placeholderAnalysis() *models.Analysis {
	return &models.Analysis{
		Risks:      []string{placeholderNote, placeholderNote, placeholderNote},
		Strengths:  []string{placeholderNote, placeholderNote, placeholderNote},
		Evaluation: placeholderEvaluation,
	}
}

// batchRequest shapes validator constraints for AnalyzeBatch input.
type batchRequest struct {
	Tickers []string `validate:"required,min=1,max=25,dive,required"`
}

// AnalyzeBatch processes up to MaxBatchSize tickers sequentially. Validation
// happens before any I/O. Per-ticker failures land in the returned error
// list; surviving tickers are still processed.
func (s *Service) AnalyzeBatch(ctx context.Context, tickers []string) ([]models.WatchlistItem, []string, error) {
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if n := models.NormalizeTicker(t); n != "" {
			normalized = append(normalized, n)
		}
	}

	if err := s.validate.Struct(batchRequest{Tickers: normalized}); err != nil {
		return nil, nil, fmt.Errorf("invalid batch: must contain 1 to %d tickers: %w", MaxBatchSize, err)
	}

	var items []models.WatchlistItem
	var errs []string
	for _, ticker := range normalized {
		item, err := s.GetOrRefresh(ctx, ticker)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", ticker, err))
			continue
		}
		items = append(items, *item)
	}

	s.logger.Info().
		Int("requested", len(normalized)).
		Int("succeeded", len(items)).
		Int("failed", len(errs)).
		Msg("Watchlist batch analysis complete")

	return items, errs, nil
}

// Remove deletes a ticker from the watchlist. Removing an absent ticker is
// not an error.
func (s *Service) Remove(ctx context.Context, ticker string) error {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return fmt.Errorf("ticker is required")
	}

	wl, err := s.storage.WatchlistStore().GetWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	_, idx := wl.FindByTicker(ticker)
	if idx < 0 {
		return nil
	}

	wl.Items = append(wl.Items[:idx], wl.Items[idx+1:]...)

	if err := s.storage.WatchlistStore().SaveWatchlist(ctx, wl); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Watchlist item removed")

	return nil
}

// Ensure Service implements WatchlistService
var _ interfaces.WatchlistService = (*Service)(nil)
