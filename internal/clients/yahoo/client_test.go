package yahoo

import (
	"context"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEquity() *finance.Equity {
	return &finance.Equity{
		Quote: finance.Quote{
			Symbol:             "ARCC",
			ShortName:          "Ares Capital Corporation",
			RegularMarketPrice: 20.55,
		},
		MarketCap:                   12500000000,
		TrailingPE:                  8.9,
		TrailingAnnualDividendYield: 0.0935,
		BookValue:                   19.04,
	}
}

func TestQuoteFromEquity(t *testing.T) {
	q := quoteFromEquity(testEquity())

	assert.Equal(t, "ARCC", q.Ticker)
	assert.Equal(t, "Ares Capital Corporation", q.Name)
	assert.InDelta(t, 20.55, q.Price, 0.001)
	assert.InDelta(t, 12500000000, q.MarketCap, 1)
	assert.InDelta(t, 8.9, q.PE, 0.001)
	assert.InDelta(t, 9.35, q.DividendYield, 0.001)

	// Yahoo carries no trailing-year change; absent stays zero, never a
	// lookalike figure from another field.
	assert.Zero(t, q.OneYearChangePct)
	assert.Zero(t, q.YTDChangePct)
}

func TestMetricsFromEquity(t *testing.T) {
	b := metricsFromEquity("ARCC", testEquity())

	assert.Equal(t, "ARCC", b.Ticker)
	require.NotNil(t, b.Price)
	assert.InDelta(t, 20.55, *b.Price, 0.001)
	require.NotNil(t, b.DividendYield)
	assert.InDelta(t, 9.35, *b.DividendYield, 0.001)
	require.NotNil(t, b.NAVPerShare)
	assert.InDelta(t, 19.04, *b.NAVPerShare, 0.001)
	require.NotNil(t, b.PriceToNAV)
	assert.InDelta(t, 20.55/19.04, *b.PriceToNAV, 0.001)
}

func TestMetricsFromEquity_PartialData(t *testing.T) {
	eq := &finance.Equity{
		Quote: finance.Quote{
			Symbol:             "OBDC",
			RegularMarketPrice: 14.80,
		},
	}

	b := metricsFromEquity("OBDC", eq)

	require.NotNil(t, b.Price)
	assert.Nil(t, b.DividendYield)
	assert.Nil(t, b.NAVPerShare)
	assert.Nil(t, b.PriceToNAV)
	assert.Nil(t, b.TotalAssets)
}

func TestGetQuote_CancelledContext(t *testing.T) {
	c := NewClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetQuote(ctx, "ARCC")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.GetBDCMetrics(ctx, "ARCC")
	assert.ErrorIs(t, err, context.Canceled)
}
