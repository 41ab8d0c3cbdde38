// Package interfaces defines service contracts for bdcwatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

// QuoteClient provides market/profile data for a ticker.
type QuoteClient interface {
	// GetQuote retrieves the current quote and profile snapshot.
	// Returns a ticker-not-found error when the provider has no valid price.
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)

	// GetBDCMetrics retrieves the scalar financial metrics used on the
	// composite dashboard. Absent values stay nil.
	GetBDCMetrics(ctx context.Context, ticker string) (*models.BDC, error)
}

// AnalysisClient produces structured AI commentary for a ticker.
type AnalysisClient interface {
	// AnalyzeTicker returns exactly 3 risks, exactly 3 strengths, one
	// evaluation, and best-effort numeric estimates. A response that cannot
	// be decoded into that shape is signaled distinctly from transport
	// failure.
	AnalyzeTicker(ctx context.Context, ticker string, quote *models.Quote) (*models.Analysis, error)
}

// FilingClient provides access to regulatory filings.
type FilingClient interface {
	// GetRecentFilings lists the company's recent filings of the given forms,
	// newest first.
	GetRecentFilings(ctx context.Context, cik string, forms []string, limit int) ([]models.Filing, error)

	// GetDocumentText downloads a filing document and returns its text
	// content. PDF documents are extracted to plain text.
	GetDocumentText(ctx context.Context, filing models.Filing) (string, error)
}
