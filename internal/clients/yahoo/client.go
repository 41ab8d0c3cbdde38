// Package yahoo provides a fallback quote source backed by Yahoo Finance.
// It carries no API key, so it serves as the provider of last resort when
// the primary market data client is unconfigured or failing.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

// ErrTickerNotFound signals that Yahoo has no valid price for the symbol.
var ErrTickerNotFound = errors.New("ticker not found")

// Client implements the QuoteClient interface against Yahoo Finance.
type Client struct {
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetQuote retrieves the current quote snapshot for a ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	eq, err := c.fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("ticker", ticker).Float64("price", eq.RegularMarketPrice).Msg("Yahoo quote")

	return quoteFromEquity(eq), nil
}

// GetBDCMetrics retrieves the subset of dashboard metrics Yahoo reports.
// Fields the source does not carry stay nil.
func (c *Client) GetBDCMetrics(ctx context.Context, ticker string) (*models.BDC, error) {
	eq, err := c.fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	bdc := metricsFromEquity(ticker, eq)
	bdc.MetricsUpdatedAt = time.Now()

	return bdc, nil
}

// fetch wraps the equity lookup. The underlying library takes no context, so
// cancellation is only honored before the call.
func (c *Client) fetch(ctx context.Context, ticker string) (*finance.Equity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eq, err := equity.Get(ticker)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote for %s: %w", ticker, err)
	}
	if eq == nil || eq.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return eq, nil
}

// quoteFromEquity maps the Yahoo equity snapshot onto the quote contract.
// Yahoo has no trailing-year change figure, so OneYearChangePct stays zero.
func quoteFromEquity(eq *finance.Equity) *models.Quote {
	return &models.Quote{
		Ticker:        eq.Symbol,
		Name:          eq.ShortName,
		Price:         eq.RegularMarketPrice,
		MarketCap:     float64(eq.MarketCap),
		PE:            eq.TrailingPE,
		DividendYield: eq.TrailingAnnualDividendYield * 100,
	}
}

// metricsFromEquity maps the equity snapshot onto the dashboard metrics,
// using book value per share as the NAV proxy.
func metricsFromEquity(ticker string, eq *finance.Equity) *models.BDC {
	bdc := &models.BDC{
		Ticker: ticker,
		Price:  models.Float64Ptr(eq.RegularMarketPrice),
	}

	if eq.TrailingAnnualDividendYield > 0 {
		bdc.DividendYield = models.Float64Ptr(eq.TrailingAnnualDividendYield * 100)
	}
	if eq.BookValue > 0 {
		bdc.NAVPerShare = models.Float64Ptr(eq.BookValue)
		bdc.PriceToNAV = models.Float64Ptr(eq.RegularMarketPrice / eq.BookValue)
	}

	return bdc
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
