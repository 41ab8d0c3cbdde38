// Package models defines data structures for bdcwatch
package models

import "time"

// Holding provenance values. Synthetic holdings are representative data
// substituted when filing extraction yields too few rows.
const (
	SourceEDGAR     = "edgar"
	SourceSynthetic = "synthetic"
)

// BDC represents a Business Development Company. All scalar metrics are
// pointers: nil means unknown, never zero.
type BDC struct {
	CIK    string `json:"cik" badgerhold:"key"`
	Ticker string `json:"ticker,omitempty"`
	Name   string `json:"name"`

	DividendYield    *float64 `json:"dividend_yield,omitempty"`     // %
	DividendGrowth3Y *float64 `json:"dividend_growth_3y,omitempty"` // %
	NAVPerShare      *float64 `json:"nav_per_share,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	PriceToNAV       *float64 `json:"price_to_nav,omitempty"`
	NonAccrualPct    *float64 `json:"non_accrual_pct,omitempty"` // % of portfolio at fair value
	TotalAssets      *float64 `json:"total_assets,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	NIIYield         *float64 `json:"nii_yield,omitempty"` // net investment income yield %

	MetricsUpdatedAt time.Time `json:"metrics_updated_at,omitempty"`
}

// HasAnyMetric reports whether at least one scalar metric is populated.
func (b *BDC) HasAnyMetric() bool {
	for _, m := range []*float64{
		b.DividendYield, b.DividendGrowth3Y, b.NAVPerShare, b.Price,
		b.PriceToNAV, b.NonAccrualPct, b.TotalAssets, b.DebtToEquity, b.NIIYield,
	} {
		if m != nil {
			return true
		}
	}
	return false
}

// Holding is a single portfolio company position within a BDC's filing.
type Holding struct {
	ID             string  `json:"id" badgerhold:"key"`
	BDCCIK         string  `json:"bdc_cik" badgerhold:"index"`
	PeriodDate     string  `json:"period_date"` // YYYY-MM-DD reporting period, not import date
	Company        string  `json:"company"`
	IndustryRaw    string  `json:"industry_raw"`
	IndustrySector string  `json:"industry_sector,omitempty"` // resolved sector, may be empty
	FairValue      float64 `json:"fair_value"`
	Source         string  `json:"source"` // edgar | synthetic
}

// SectorExposure is the aggregation result for one BDC's latest period.
// SectorPercentages always contains every taxonomy sector, zero included.
type SectorExposure struct {
	PeriodDate        string             `json:"period_date"`
	TotalFairValue    float64            `json:"total_fair_value"`
	SectorPercentages map[string]float64 `json:"sector_percentages"`
}

// BDCView is the flat composite record served to the presentation layer:
// identity, scalar metrics, and sector exposure merged into one row.
type BDCView struct {
	CIK    string `json:"cik"`
	Ticker string `json:"ticker,omitempty"`
	Name   string `json:"name"`

	DividendYield    *float64 `json:"dividend_yield,omitempty"`
	DividendGrowth3Y *float64 `json:"dividend_growth_3y,omitempty"`
	NAVPerShare      *float64 `json:"nav_per_share,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	PriceToNAV       *float64 `json:"price_to_nav,omitempty"`
	NonAccrualPct    *float64 `json:"non_accrual_pct,omitempty"`
	TotalAssets      *float64 `json:"total_assets,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	NIIYield         *float64 `json:"nii_yield,omitempty"`

	TotalFairValue    float64            `json:"total_fair_value"`
	PeriodDate        string             `json:"period_date,omitempty"`
	SectorPercentages map[string]float64 `json:"sector_percentages"`
}

// Metric extracts a scalar metric from a view by its sort-key name.
// Returns nil for unknown names.
func (v *BDCView) Metric(name string) *float64 {
	switch name {
	case "dividend_yield":
		return v.DividendYield
	case "dividend_growth_3y":
		return v.DividendGrowth3Y
	case "nav_per_share":
		return v.NAVPerShare
	case "price":
		return v.Price
	case "price_to_nav":
		return v.PriceToNAV
	case "non_accrual_pct":
		return v.NonAccrualPct
	case "total_assets":
		return v.TotalAssets
	case "debt_to_equity":
		return v.DebtToEquity
	case "nii_yield":
		return v.NIIYield
	}
	return nil
}

// MetricNames lists the sortable scalar metric keys in display order.
func MetricNames() []string {
	return []string{
		"dividend_yield", "dividend_growth_3y", "nav_per_share", "price",
		"price_to_nav", "non_accrual_pct", "total_assets", "debt_to_equity",
		"nii_yield",
	}
}

// Float64Ptr returns a pointer to v. Convenience for building metric fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IngestStatus values for per-entity ingestion results.
const (
	IngestStatusIngested  = "ingested"
	IngestStatusSynthetic = "synthetic"
	IngestStatusError     = "error"
)

// IngestResult reports the outcome of ingesting one BDC.
type IngestResult struct {
	CIK      string `json:"cik"`
	Ticker   string `json:"ticker,omitempty"`
	Status   string `json:"status"`
	Holdings int    `json:"holdings"`
	Period   string `json:"period,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RefreshStatus values for per-entity refresh results.
const (
	RefreshStatusUpdated = "updated"
	RefreshStatusSkipped = "skipped"
	RefreshStatusError   = "error"
)

// RefreshResult reports the outcome of refreshing one BDC's metrics.
type RefreshResult struct {
	CIK    string `json:"cik"`
	Ticker string `json:"ticker,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RefreshSummary aggregates a refresh run.
type RefreshSummary struct {
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration_ms"`
	Updated   int             `json:"updated"`
	Skipped   int             `json:"skipped"`
	Errors    int             `json:"errors"`
	Results   []RefreshResult `json:"results"`
}
