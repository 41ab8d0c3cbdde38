package models

import (
	"strings"
	"time"
)

// Quote is the market/profile snapshot returned by the quote collaborator.
type Quote struct {
	Ticker           string  `json:"ticker"`
	Name             string  `json:"name,omitempty"`
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"market_cap,omitempty"`
	Sector           string  `json:"sector,omitempty"`
	Industry         string  `json:"industry,omitempty"`
	PE               float64 `json:"pe,omitempty"`
	DividendYield    float64 `json:"dividend_yield,omitempty"` // %
	YTDChangePct     float64 `json:"ytd_change_pct,omitempty"`
	OneYearChangePct float64 `json:"one_year_change_pct,omitempty"`
}

// AnalysisEstimates carries the AI collaborator's best-effort numeric estimates.
type AnalysisEstimates struct {
	NAVPerShare  *float64 `json:"nav_per_share,omitempty"`
	FairValue    *float64 `json:"fair_value,omitempty"`
	RiskScore    *float64 `json:"risk_score,omitempty"` // 1 (low) .. 10 (high)
	ForwardYield *float64 `json:"forward_yield,omitempty"`
}

// Analysis is the structured output of the AI collaborator: exactly three
// risks, exactly three strengths, one evaluation.
type Analysis struct {
	Risks      []string          `json:"risks"`
	Strengths  []string          `json:"strengths"`
	Evaluation string            `json:"evaluation"`
	Estimates  AnalysisEstimates `json:"estimates"`
}

// WatchlistItem is one analyzed ticker in the watchlist cache.
type WatchlistItem struct {
	Ticker string `json:"ticker"` // normalized upper-case
	Name   string `json:"name,omitempty"`

	// Market snapshot from the quote collaborator
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"market_cap,omitempty"`
	Sector           string  `json:"sector,omitempty"`
	Industry         string  `json:"industry,omitempty"`
	PE               float64 `json:"pe,omitempty"`
	DividendYield    float64 `json:"dividend_yield,omitempty"`
	YTDChangePct     float64 `json:"ytd_change_pct,omitempty"`
	OneYearChangePct float64 `json:"one_year_change_pct,omitempty"`

	// AI qualitative fields
	Risks      []string          `json:"risks"`
	Strengths  []string          `json:"strengths"`
	Evaluation string            `json:"evaluation"`
	Estimates  AnalysisEstimates `json:"estimates"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Watchlist is the whole keyed collection, persisted as one document.
type Watchlist struct {
	Items     []WatchlistItem `json:"items"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FindByTicker returns the item with the given normalized ticker and its
// index, or (nil, -1) when absent.
func (w *Watchlist) FindByTicker(ticker string) (*WatchlistItem, int) {
	ticker = NormalizeTicker(ticker)
	for i := range w.Items {
		if w.Items[i].Ticker == ticker {
			return &w.Items[i], i
		}
	}
	return nil, -1
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
