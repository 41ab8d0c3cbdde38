// Package fmp provides a client for the Financial Modeling Prep API
package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

// ErrTickerNotFound signals that the provider has no valid price for the
// requested symbol. Callers treat this differently from transport failure.
var ErrTickerNotFound = errors.New("ticker not found")

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://financialmodelingprep.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the QuoteClient interface against FMP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new FMP client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FMP API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("FMP API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteResponse represents one element of the /quote response array
type quoteResponse struct {
	Symbol        string      `json:"symbol"`
	Name          string      `json:"name"`
	Price         flexFloat64 `json:"price"`
	MarketCap     flexFloat64 `json:"marketCap"`
	PE            *float64    `json:"pe"`
	YearHigh      flexFloat64 `json:"yearHigh"`
	YearLow       flexFloat64 `json:"yearLow"`
	PreviousClose flexFloat64 `json:"previousClose"`
}

// profileResponse represents one element of the /profile response array
type profileResponse struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	Sector      string      `json:"sector"`
	Industry    string      `json:"industry"`
	LastDiv     flexFloat64 `json:"lastDiv"`
}

// priceChangeResponse represents one element of /stock-price-change
type priceChangeResponse struct {
	Symbol  string   `json:"symbol"`
	YTD     *float64 `json:"ytd"`
	OneYear *float64 `json:"1Y"`
}

// GetQuote retrieves a quote and profile snapshot for a ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	var quotes []quoteResponse
	if err := c.get(ctx, "/quote/"+url.PathEscape(ticker), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 || quotes[0].Price <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	q := quotes[0]

	quote := &models.Quote{
		Ticker:    q.Symbol,
		Name:      q.Name,
		Price:     float64(q.Price),
		MarketCap: float64(q.MarketCap),
	}
	if q.PE != nil {
		quote.PE = *q.PE
	}

	// Profile and price change are enrichments: a failure there does not
	// invalidate the quote.
	var profiles []profileResponse
	if err := c.get(ctx, "/profile/"+url.PathEscape(ticker), nil, &profiles); err == nil && len(profiles) > 0 {
		quote.Sector = profiles[0].Sector
		quote.Industry = profiles[0].Industry
		if quote.Price > 0 && profiles[0].LastDiv > 0 {
			quote.DividendYield = float64(profiles[0].LastDiv) / quote.Price * 100
		}
	} else if err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Profile fetch failed, quote degraded")
	}

	var changes []priceChangeResponse
	if err := c.get(ctx, "/stock-price-change/"+url.PathEscape(ticker), nil, &changes); err == nil && len(changes) > 0 {
		if changes[0].YTD != nil {
			quote.YTDChangePct = *changes[0].YTD
		}
		if changes[0].OneYear != nil {
			quote.OneYearChangePct = *changes[0].OneYear
		}
	}

	return quote, nil
}

// keyMetricsResponse represents one element of /key-metrics-ttm
type keyMetricsResponse struct {
	DividendYieldTTM     *float64 `json:"dividendYieldTTM"`
	BookValuePerShareTTM *float64 `json:"bookValuePerShareTTM"`
	DebtToEquityTTM      *float64 `json:"debtToEquityTTM"`
	NetIncomePerShareTTM *float64 `json:"netIncomePerShareTTM"`
}

// balanceSheetResponse represents one element of /balance-sheet-statement
type balanceSheetResponse struct {
	Date        string      `json:"date"`
	TotalAssets flexFloat64 `json:"totalAssets"`
}

// growthResponse represents one element of /financial-growth
type growthResponse struct {
	Date                         string   `json:"date"`
	DividendsPerShareGrowth      *float64 `json:"dividendsperShareGrowth"`
	ThreeYDividendperShareGrowth *float64 `json:"threeYDividendperShareGrowthPerShare"`
}

// GetBDCMetrics retrieves the scalar dashboard metrics for a ticker. Values
// the provider does not report stay nil.
func (c *Client) GetBDCMetrics(ctx context.Context, ticker string) (*models.BDC, error) {
	var quotes []quoteResponse
	if err := c.get(ctx, "/quote/"+url.PathEscape(ticker), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 || quotes[0].Price <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	bdc := &models.BDC{
		Ticker: ticker,
		Price:  models.Float64Ptr(float64(quotes[0].Price)),
	}

	var metrics []keyMetricsResponse
	if err := c.get(ctx, "/key-metrics-ttm/"+url.PathEscape(ticker), nil, &metrics); err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Key metrics fetch failed")
	} else if len(metrics) > 0 {
		m := metrics[0]
		if m.DividendYieldTTM != nil {
			bdc.DividendYield = models.Float64Ptr(*m.DividendYieldTTM * 100)
		}
		if m.BookValuePerShareTTM != nil && *m.BookValuePerShareTTM > 0 {
			// Book value per share is the closest reported proxy for NAV
			// per share on investment companies.
			bdc.NAVPerShare = models.Float64Ptr(*m.BookValuePerShareTTM)
			bdc.PriceToNAV = models.Float64Ptr(float64(quotes[0].Price) / *m.BookValuePerShareTTM)
			if m.NetIncomePerShareTTM != nil {
				bdc.NIIYield = models.Float64Ptr(*m.NetIncomePerShareTTM / *m.BookValuePerShareTTM * 100)
			}
		}
		if m.DebtToEquityTTM != nil {
			bdc.DebtToEquity = models.Float64Ptr(*m.DebtToEquityTTM)
		}
	}

	var sheets []balanceSheetResponse
	params := url.Values{}
	params.Set("period", "quarter")
	params.Set("limit", "1")
	if err := c.get(ctx, "/balance-sheet-statement/"+url.PathEscape(ticker), params, &sheets); err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Balance sheet fetch failed")
	} else if len(sheets) > 0 && sheets[0].TotalAssets > 0 {
		bdc.TotalAssets = models.Float64Ptr(float64(sheets[0].TotalAssets))
	}

	growthParams := url.Values{}
	growthParams.Set("limit", "1")
	var growth []growthResponse
	if err := c.get(ctx, "/financial-growth/"+url.PathEscape(ticker), growthParams, &growth); err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Financial growth fetch failed")
	} else if len(growth) > 0 && growth[0].ThreeYDividendperShareGrowth != nil {
		bdc.DividendGrowth3Y = models.Float64Ptr(*growth[0].ThreeYDividendperShareGrowth * 100)
	}

	bdc.MetricsUpdatedAt = time.Now()

	return bdc, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
