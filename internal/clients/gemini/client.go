// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// ErrMalformedResponse signals that the model answered but the response could
// not be decoded into the expected analysis shape. Callers distinguish this
// from transport failure.
var ErrMalformedResponse = errors.New("malformed analysis response")

// Client implements the AnalysisClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// analysisResponse is the JSON shape requested from the model.
type analysisResponse struct {
	Risks      []string `json:"risks"`
	Strengths  []string `json:"strengths"`
	Evaluation string   `json:"evaluation"`
	Estimates  struct {
		NAVPerShare  *float64 `json:"nav_per_share"`
		FairValue    *float64 `json:"fair_value"`
		RiskScore    *float64 `json:"risk_score"`
		ForwardYield *float64 `json:"forward_yield"`
	} `json:"estimates"`
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"risks": {
				Type:        genai.TypeArray,
				Description: "Exactly three distinct risk factors, one sentence each",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"strengths": {
				Type:        genai.TypeArray,
				Description: "Exactly three distinct strengths, one sentence each",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"evaluation": {
				Type:        genai.TypeString,
				Description: "A 2-3 sentence overall investment evaluation",
			},
			"estimates": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"nav_per_share": {Type: genai.TypeNumber},
					"fair_value":    {Type: genai.TypeNumber},
					"risk_score":    {Type: genai.TypeNumber, Description: "1 (low) to 10 (high)"},
					"forward_yield": {Type: genai.TypeNumber, Description: "Expected forward dividend yield %"},
				},
			},
		},
		Required: []string{"risks", "strengths", "evaluation"},
	}
}

// AnalyzeTicker generates structured commentary for a BDC ticker.
func (c *Client) AnalyzeTicker(ctx context.Context, ticker string, quote *models.Quote) (*models.Analysis, error) {
	prompt := buildAnalysisPrompt(ticker, quote)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	}

	c.logger.Debug().Str("model", c.model).Str("ticker", ticker).Msg("Generating BDC analysis")

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	text, err := extractText(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var parsed analysisResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Risks) != 3 || len(parsed.Strengths) != 3 || parsed.Evaluation == "" {
		return nil, fmt.Errorf("%w: got %d risks, %d strengths", ErrMalformedResponse, len(parsed.Risks), len(parsed.Strengths))
	}

	return &models.Analysis{
		Risks:      parsed.Risks,
		Strengths:  parsed.Strengths,
		Evaluation: parsed.Evaluation,
		Estimates: models.AnalysisEstimates{
			NAVPerShare:  parsed.Estimates.NAVPerShare,
			FairValue:    parsed.Estimates.FairValue,
			RiskScore:    parsed.Estimates.RiskScore,
			ForwardYield: parsed.Estimates.ForwardYield,
		},
	}, nil
}

func extractText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

func buildAnalysisPrompt(ticker string, quote *models.Quote) string {
	prompt := fmt.Sprintf(`You are a credit analyst covering Business Development Companies (BDCs).
Analyze %s and respond with exactly 3 risks, exactly 3 strengths, a 2-3
sentence evaluation, and numeric estimates where you are confident.
`, ticker)

	if quote != nil {
		prompt += fmt.Sprintf(`
Current Market Data:
- Name: %s
- Price: $%.2f
- Market Cap: $%.0fM
- P/E: %.2f
- Dividend Yield: %.2f%%
- YTD Change: %.2f%%
- 1Y Change: %.2f%%
`,
			quote.Name,
			quote.Price,
			quote.MarketCap/1000000,
			quote.PE,
			quote.DividendYield,
			quote.YTDChangePct,
			quote.OneYearChangePct,
		)
	}

	prompt += `
Focus on credit quality, non-accruals, NAV trajectory, dividend coverage,
and leverage. Keep each risk and strength to one sentence.`

	return prompt
}

// Ensure Client implements AnalysisClient
var _ interfaces.AnalysisClient = (*Client)(nil)
