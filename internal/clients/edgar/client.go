// Package edgar provides a client for the SEC EDGAR filing system
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

const (
	DefaultSubmissionsURL = "https://data.sec.gov/submissions"
	DefaultArchivesURL    = "https://www.sec.gov/Archives/edgar/data"
	DefaultUserAgent      = "bdcwatch/1.0 (admin@bdcwatch.local)"
	DefaultTimeout        = 60 * time.Second

	// SEC fair-access policy allows at most 10 requests per second.
	DefaultRateLimit = 8

	maxDocumentChars = 400000
)

// Client implements the FilingClient interface against EDGAR.
type Client struct {
	submissionsURL string
	archivesURL    string
	userAgent      string
	httpClient     *http.Client
	logger         *common.Logger
	limiter        *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithUserAgent sets the User-Agent header. SEC requires a descriptive
// agent with contact information.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithBaseURLs overrides the submissions and archives endpoints.
func WithBaseURLs(submissionsURL, archivesURL string) ClientOption {
	return func(c *Client) {
		c.submissionsURL = submissionsURL
		c.archivesURL = archivesURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EDGAR client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		submissionsURL: DefaultSubmissionsURL,
		archivesURL:    DefaultArchivesURL,
		userAgent:      DefaultUserAgent,
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

// fetch performs a rate-limited GET with the required User-Agent.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("url", url).Msg("EDGAR request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EDGAR returned status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// submissionsResponse mirrors the EDGAR submissions JSON. The recent filings
// are column-oriented parallel arrays.
type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// normalizeCIK left-pads a CIK to the 10 digits EDGAR expects.
func normalizeCIK(cik string) (string, error) {
	trimmed := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if trimmed == "" {
		return "", fmt.Errorf("empty cik")
	}
	if _, err := strconv.Atoi(trimmed); err != nil {
		return "", fmt.Errorf("invalid cik %q: %w", cik, err)
	}
	return fmt.Sprintf("%010s", trimmed), nil
}

// GetRecentFilings lists recent filings of the given forms, newest first.
func (c *Client) GetRecentFilings(ctx context.Context, cik string, forms []string, limit int) ([]models.Filing, error) {
	padded, err := normalizeCIK(cik)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/CIK%s.json", c.submissionsURL, padded)
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	var subs submissionsResponse
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	wanted := make(map[string]bool, len(forms))
	for _, f := range forms {
		wanted[strings.ToUpper(f)] = true
	}

	recent := subs.Filings.Recent
	cikNum := strings.TrimLeft(padded, "0")

	var filings []models.Filing
	for i := range recent.AccessionNumber {
		// The submissions payload is column-oriented parallel arrays; a
		// truncated column must not panic, so every column is bounds-checked.
		form := ""
		if i < len(recent.Form) {
			form = recent.Form[i]
		}
		if len(forms) > 0 && !wanted[strings.ToUpper(form)] {
			continue
		}

		accession := recent.AccessionNumber[i]
		primaryDoc := ""
		if i < len(recent.PrimaryDocument) {
			primaryDoc = recent.PrimaryDocument[i]
		}

		filing := models.Filing{
			AccessionNumber: accession,
			Form:            form,
			PrimaryDocument: primaryDoc,
		}
		if i < len(recent.FilingDate) {
			filing.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.ReportDate) {
			filing.ReportDate = recent.ReportDate[i]
		}
		if primaryDoc != "" {
			filing.DocumentURL = fmt.Sprintf("%s/%s/%s/%s",
				c.archivesURL, cikNum, strings.ReplaceAll(accession, "-", ""), primaryDoc)
		}

		filings = append(filings, filing)
		if limit > 0 && len(filings) >= limit {
			break
		}
	}

	c.logger.Debug().
		Str("cik", cik).
		Strs("forms", forms).
		Int("count", len(filings)).
		Msg("Listed EDGAR filings")

	return filings, nil
}

// GetDocumentText downloads a filing document and returns plain text.
// PDF documents are extracted; HTML documents are stripped of markup.
func (c *Client) GetDocumentText(ctx context.Context, filing models.Filing) (string, error) {
	if filing.DocumentURL == "" {
		return "", fmt.Errorf("filing %s has no document URL", filing.AccessionNumber)
	}

	content, err := c.fetch(ctx, filing.DocumentURL)
	if err != nil {
		return "", fmt.Errorf("failed to download document: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(filing.PrimaryDocument), ".pdf") {
		return extractPDFText(content)
	}

	text := stripHTML(string(content))
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}
	return text, nil
}

// Regex patterns for HTML stripping — compiled once.
var (
	scriptPattern = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	entityRepl    = strings.NewReplacer(
		"&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">",
		"&quot;", `"`, "&#160;", " ", "&#8217;", "'",
	)
	blankPattern = regexp.MustCompile(`\n{3,}`)
)

// stripHTML reduces an HTML document to whitespace-normalized plain text.
// Table cell boundaries become newlines so row structure survives.
func stripHTML(html string) string {
	html = scriptPattern.ReplaceAllString(html, "")
	html = strings.ReplaceAll(html, "</td>", "\n")
	html = strings.ReplaceAll(html, "</tr>", "\n")
	html = strings.ReplaceAll(html, "<br>", "\n")
	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = tagPattern.ReplaceAllString(html, " ")
	html = entityRepl.Replace(html)

	lines := strings.Split(html, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text := strings.Join(lines, "\n")
	return blankPattern.ReplaceAllString(text, "\n\n")
}

// extractPDFText extracts plain text from PDF bytes. The pdf library reads
// from disk, so the content goes through a temp file.
func extractPDFText(content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "edgar-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	f, r, err := pdf.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	totalPages := r.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxDocumentChars {
			break
		}
	}

	result := sb.String()
	if len(result) > maxDocumentChars {
		result = result[:maxDocumentChars]
	}

	return result, nil
}

// Ensure Client implements FilingClient
var _ interfaces.FilingClient = (*Client)(nil)
