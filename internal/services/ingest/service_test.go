package ingest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/bobmcallan/bdcwatch/internal/sectors"
)

// --- Stubs ---

type stubStorage struct {
	bdcs     map[string]*models.BDC
	holdings map[string][]models.Holding
	replaces int
}

func newStubStorage() *stubStorage {
	return &stubStorage{
		bdcs:     make(map[string]*models.BDC),
		holdings: make(map[string][]models.Holding),
	}
}

func (s *stubStorage) BDCStore() interfaces.BDCStore             { return s }
func (s *stubStorage) HoldingStore() interfaces.HoldingStore     { return s }
func (s *stubStorage) WatchlistStore() interfaces.WatchlistStore { return nil }
func (s *stubStorage) KeyValueStore() interfaces.KeyValueStore   { return nil }
func (s *stubStorage) Close() error                              { return nil }

func (s *stubStorage) GetBDC(_ context.Context, cik string) (*models.BDC, error) {
	b, ok := s.bdcs[cik]
	if !ok {
		return nil, fmt.Errorf("bdc '%s' not found", cik)
	}
	return b, nil
}

func (s *stubStorage) UpsertBDC(_ context.Context, b *models.BDC) error {
	s.bdcs[b.CIK] = b
	return nil
}

func (s *stubStorage) ListBDCs(_ context.Context) ([]*models.BDC, error) {
	out := make([]*models.BDC, 0, len(s.bdcs))
	for _, b := range s.bdcs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubStorage) GetHoldingsByCIK(_ context.Context, cik string) ([]models.Holding, error) {
	return s.holdings[cik], nil
}

func (s *stubStorage) ReplaceHoldings(_ context.Context, cik string, holdings []models.Holding) error {
	s.holdings[cik] = holdings
	s.replaces++
	return nil
}

func (s *stubStorage) DeleteHoldingsByCIK(_ context.Context, cik string) (int, error) {
	n := len(s.holdings[cik])
	delete(s.holdings, cik)
	return n, nil
}

type stubFilingClient struct {
	filings map[string][]models.Filing
	docs    map[string]string
	listErr error
}

func (c *stubFilingClient) GetRecentFilings(_ context.Context, cik string, forms []string, limit int) ([]models.Filing, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.filings[cik], nil
}

func (c *stubFilingClient) GetDocumentText(_ context.Context, filing models.Filing) (string, error) {
	text, ok := c.docs[filing.AccessionNumber]
	if !ok {
		return "", errors.New("document unavailable")
	}
	return text, nil
}

// soiFixture mimics the cell-per-line plain text produced by stripping a
// schedule-of-investments HTML table.
const soiFixture = `Schedule of Investments
Portfolio Company
Industry
Fair Value

Alpine Software Holdings, Inc.
Application Software
1,250
12,500
Harbor Dental Partners LLC
Healthcare Providers & Services
8,200
Granite Logistics Corp.
Transportation & Logistics
$ 4,100
Beacon Foods Co.
Food & Beverage
2,950
Crestline Insurance Group LLC
Insurance Services
6,300
Redstone Widgets Ltd.
Diversified Conglomerates
900
Total
36,950`

func arccFilings() *stubFilingClient {
	return &stubFilingClient{
		filings: map[string][]models.Filing{
			"0001287750": {{
				AccessionNumber: "acc-1",
				Form:            "10-Q",
				ReportDate:      "2024-09-30",
				FilingDate:      "2024-11-05",
				DocumentURL:     "http://example/doc.htm",
			}},
		},
		docs: map[string]string{"acc-1": soiFixture},
	}
}

// --- Parser tests ---

func TestParseHoldings_Fixture(t *testing.T) {
	holdings := ParseHoldings(soiFixture)
	require.Len(t, holdings, 6)

	assert.Equal(t, "Alpine Software Holdings, Inc.", holdings[0].Company)
	assert.Equal(t, "Application Software", holdings[0].IndustryRaw)
	// Last numeric in the row window wins: fair value follows cost.
	assert.Equal(t, 12500.0, holdings[0].FairValue)

	assert.Equal(t, "Granite Logistics Corp.", holdings[2].Company)
	assert.Equal(t, 4100.0, holdings[2].FairValue)

	// The Total row terminates the last company's window; the grand total
	// never leaks into a holding.
	assert.Equal(t, "Redstone Widgets Ltd.", holdings[5].Company)
	assert.Equal(t, 900.0, holdings[5].FairValue)

	// Header and Total rows never parse as companies.
	for _, h := range holdings {
		assert.NotEqual(t, "Total", h.Company)
		assert.NotEqual(t, "Portfolio Company", h.Company)
	}
}

func TestParseHoldings_Empty(t *testing.T) {
	assert.Empty(t, ParseHoldings(""))
	assert.Empty(t, ParseHoldings("Just some narrative text.\nNothing tabular here."))
}

func TestParseHoldings_SkipsRowsWithoutValue(t *testing.T) {
	text := "Orphan Widgets Inc.\nSome Industry\nno numbers follow"
	assert.Empty(t, ParseHoldings(text))
}

func TestMatchNumber(t *testing.T) {
	cases := []struct {
		line  string
		value float64
		ok    bool
	}{
		{"1,250", 1250, true},
		{"$ 4,100", 4100, true},
		{"$12.75", 12.75, true},
		{"(350)", -350, true},
		{"Total", 0, false},
		{"", 0, false},
		{"12 Main St", 0, false},
	}
	for _, tc := range cases {
		v, ok := matchNumber(tc.line)
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		if tc.ok {
			assert.Equal(t, tc.value, v, "line %q", tc.line)
		}
	}
}

func TestMatchCompany_IndustryLabelsExcluded(t *testing.T) {
	for _, label := range []string{
		"Business Services",
		"Healthcare Providers & Services",
		"Software & IT Services",
		"Industrial Machinery",
	} {
		assert.Empty(t, matchCompany(label), "label %q", label)
	}

	assert.NotEmpty(t, matchCompany("Alpine Software Holdings, Inc."))
	assert.NotEmpty(t, matchCompany("Harbor Dental Partners LLC"))
}

// --- Synthetic tests ---

func TestSyntheticHoldings_Deterministic(t *testing.T) {
	a := syntheticHoldings(rand.New(rand.NewSource(42)))
	b := syntheticHoldings(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)

	c := syntheticHoldings(rand.New(rand.NewSource(43)))
	assert.NotEqual(t, a, c)
}

func TestSyntheticHoldings_Shape(t *testing.T) {
	holdings := syntheticHoldings(rand.New(rand.NewSource(7)))

	assert.GreaterOrEqual(t, len(holdings), syntheticMinCount)
	assert.Less(t, len(holdings), syntheticMinCount+syntheticSpread)

	seen := make(map[string]bool)
	for _, h := range holdings {
		assert.Positive(t, h.FairValue)
		assert.NotEmpty(t, h.IndustryRaw)
		assert.False(t, seen[h.Company], "duplicate company %s", h.Company)
		seen[h.Company] = true
	}
}

func TestLatestQuarterEnd(t *testing.T) {
	cases := []struct {
		now      string
		expected string
	}{
		{"2024-11-15", "2024-09-30"},
		{"2024-09-30", "2024-09-30"},
		{"2024-02-01", "2023-12-31"},
		{"2024-12-31", "2024-12-31"},
	}
	for _, tc := range cases {
		now, err := time.Parse("2006-01-02", tc.now)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, latestQuarterEnd(now), "now %s", tc.now)
	}
}

func TestSeedFromCIK_Stable(t *testing.T) {
	assert.Equal(t, seedFromCIK("0001287750"), seedFromCIK("0001287750"))
	assert.NotEqual(t, seedFromCIK("0001287750"), seedFromCIK("0001422183"))
}

// --- Service tests ---

func TestIngestOne_FromFiling(t *testing.T) {
	storage := newStubStorage()
	svc := NewService(storage, arccFilings(), common.NewSilentLogger())

	result, err := svc.IngestOne(context.Background(), "0001287750")
	require.NoError(t, err)

	assert.Equal(t, models.IngestStatusIngested, result.Status)
	assert.Equal(t, "2024-09-30", result.Period)
	assert.Equal(t, 6, result.Holdings)

	// Entity created from the seed list.
	entity := storage.bdcs["0001287750"]
	require.NotNil(t, entity)
	assert.Equal(t, "ARCC", entity.Ticker)

	stored := storage.holdings["0001287750"]
	require.Len(t, stored, 6)
	for _, h := range stored {
		assert.Equal(t, models.SourceEDGAR, h.Source)
		assert.Equal(t, "2024-09-30", h.PeriodDate)
		assert.True(t, sectors.Valid(sectors.Sector(h.IndustrySector)), "sector %q", h.IndustrySector)
	}
	assert.Equal(t, string(sectors.SoftwareTechnology), stored[0].IndustrySector)
	assert.Equal(t, string(sectors.Other), stored[5].IndustrySector)
}

func TestIngestOne_SyntheticFallback(t *testing.T) {
	storage := newStubStorage()
	// Listing fails outright; extraction yields nothing.
	client := &stubFilingClient{listErr: errors.New("edgar down")}
	svc := NewService(storage, client, common.NewSilentLogger())

	result, err := svc.IngestOne(context.Background(), "0001287750")
	require.NoError(t, err)

	assert.Equal(t, models.IngestStatusSynthetic, result.Status)
	assert.GreaterOrEqual(t, result.Holdings, syntheticMinCount)
	assert.Equal(t, latestQuarterEnd(time.Now()), result.Period)

	for _, h := range storage.holdings["0001287750"] {
		assert.Equal(t, models.SourceSynthetic, h.Source)
	}
}

func TestIngestOne_SyntheticDeterministicPerCIK(t *testing.T) {
	run := func() []models.Holding {
		storage := newStubStorage()
		svc := NewService(storage, nil, common.NewSilentLogger())
		_, err := svc.IngestOne(context.Background(), "0001287750")
		require.NoError(t, err)
		return storage.holdings["0001287750"]
	}

	assert.Equal(t, run(), run())
}

func TestIngestOne_BelowFloorFallsBack(t *testing.T) {
	storage := newStubStorage()
	svc := NewService(storage, arccFilings(), common.NewSilentLogger(), WithMinHoldings(10))

	result, err := svc.IngestOne(context.Background(), "0001287750")
	require.NoError(t, err)

	// Six extracted rows under a floor of ten: synthetic substitution.
	assert.Equal(t, models.IngestStatusSynthetic, result.Status)
}

func TestIngestOne_UnknownCIK(t *testing.T) {
	svc := NewService(newStubStorage(), nil, common.NewSilentLogger())
	_, err := svc.IngestOne(context.Background(), "9999999999")
	assert.Error(t, err)
}

func TestIngestOne_ReplacementIsWholesale(t *testing.T) {
	storage := newStubStorage()
	storage.bdcs["0001287750"] = &models.BDC{CIK: "0001287750", Ticker: "ARCC", Name: "Ares Capital Corporation"}
	storage.holdings["0001287750"] = []models.Holding{
		{PeriodDate: "2024-06-30", Company: "Stale Co", FairValue: 1},
	}

	svc := NewService(storage, arccFilings(), common.NewSilentLogger())
	_, err := svc.IngestOne(context.Background(), "0001287750")
	require.NoError(t, err)

	for _, h := range storage.holdings["0001287750"] {
		assert.NotEqual(t, "Stale Co", h.Company)
	}
}

func TestIngestOne_PreservesExistingMetrics(t *testing.T) {
	storage := newStubStorage()
	storage.bdcs["0001287750"] = &models.BDC{
		CIK: "0001287750", Ticker: "ARCC", Name: "Ares Capital Corporation",
		DividendYield: models.Float64Ptr(9.4),
	}

	svc := NewService(storage, arccFilings(), common.NewSilentLogger())
	_, err := svc.IngestOne(context.Background(), "0001287750")
	require.NoError(t, err)

	require.NotNil(t, storage.bdcs["0001287750"].DividendYield)
	assert.Equal(t, 9.4, *storage.bdcs["0001287750"].DividendYield)
}

func TestIngestAll(t *testing.T) {
	storage := newStubStorage()
	svc := NewService(storage, arccFilings(), common.NewSilentLogger())

	results, err := svc.IngestAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(SeedList()))

	byStatus := map[string]int{}
	for _, r := range results {
		byStatus[r.Status]++
	}
	// Only ARCC has a filing in the stub; everyone else goes synthetic.
	assert.Equal(t, 1, byStatus[models.IngestStatusIngested])
	assert.Equal(t, len(SeedList())-1, byStatus[models.IngestStatusSynthetic])
	assert.Equal(t, len(SeedList()), storage.replaces)
}
