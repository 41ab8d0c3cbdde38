package bdc

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

// RefreshAll walks every stored entity and refreshes its scalar metrics from
// the quote collaborator. The walk is sequential with a minimum delay
// between calls so a full refresh never trips provider rate limits. One
// entity failing is recorded and the walk continues.
func (s *Service) RefreshAll(ctx context.Context) (*models.RefreshSummary, error) {
	summary := &models.RefreshSummary{
		StartedAt: time.Now(),
	}

	bdcs, err := s.storage.BDCStore().ListBDCs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bdcs: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(1/s.minDelay), 1)

	for _, b := range bdcs {
		result := s.refreshOne(ctx, limiter, b)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case models.RefreshStatusUpdated:
			summary.Updated++
		case models.RefreshStatusSkipped:
			summary.Skipped++
		default:
			summary.Errors++
		}

		if ctx.Err() != nil {
			break
		}
	}

	summary.Duration = time.Since(summary.StartedAt)

	s.logger.Info().
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Dur("duration", summary.Duration).
		Msg("Metrics refresh complete")

	return summary, nil
}

func (s *Service) refreshOne(ctx context.Context, limiter *rate.Limiter, b *models.BDC) models.RefreshResult {
	result := models.RefreshResult{CIK: b.CIK, Ticker: b.Ticker}

	if b.Ticker == "" {
		result.Status = models.RefreshStatusSkipped
		result.Error = "no ticker"
		return result
	}
	if s.quoteClient == nil {
		result.Status = models.RefreshStatusError
		result.Error = "quote client not configured"
		return result
	}

	if err := limiter.Wait(ctx); err != nil {
		result.Status = models.RefreshStatusError
		result.Error = err.Error()
		return result
	}

	metrics, err := s.quoteClient.GetBDCMetrics(ctx, b.Ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", b.Ticker).Msg("Metrics fetch failed")
		result.Status = models.RefreshStatusError
		result.Error = err.Error()
		return result
	}

	mergeMetrics(b, metrics)
	b.MetricsUpdatedAt = time.Now()

	if err := s.storage.BDCStore().UpsertBDC(ctx, b); err != nil {
		result.Status = models.RefreshStatusError
		result.Error = err.Error()
		return result
	}

	result.Status = models.RefreshStatusUpdated
	return result
}

// mergeMetrics copies freshly fetched metric values onto the stored record.
// A nil incoming value leaves the stored one alone: the provider not
// reporting a figure today does not unlearn yesterday's.
func mergeMetrics(b, fresh *models.BDC) {
	fields := []struct {
		dst **float64
		src *float64
	}{
		{&b.DividendYield, fresh.DividendYield},
		{&b.DividendGrowth3Y, fresh.DividendGrowth3Y},
		{&b.NAVPerShare, fresh.NAVPerShare},
		{&b.Price, fresh.Price},
		{&b.PriceToNAV, fresh.PriceToNAV},
		{&b.NonAccrualPct, fresh.NonAccrualPct},
		{&b.TotalAssets, fresh.TotalAssets},
		{&b.DebtToEquity, fresh.DebtToEquity},
		{&b.NIIYield, fresh.NIIYield},
	}
	for _, f := range fields {
		if f.src != nil {
			*f.dst = f.src
		}
	}
}
