package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/bdcwatch/internal/app"
	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

// stubBDCService records the options it was called with and returns canned views.
type stubBDCService struct {
	views    []*models.BDCView
	averages map[string]float64
	summary  *models.RefreshSummary
	err      error
	lastOpts interfaces.ViewOptions
}

func (s *stubBDCService) BuildViews(ctx context.Context, opts interfaces.ViewOptions) ([]*models.BDCView, error) {
	s.lastOpts = opts
	return s.views, s.err
}

func (s *stubBDCService) GetView(ctx context.Context, cik string) (*models.BDCView, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, v := range s.views {
		if v.CIK == cik {
			return v, nil
		}
	}
	return nil, errNotFound(cik)
}

func (s *stubBDCService) Averages(views []*models.BDCView) map[string]float64 {
	return s.averages
}

func (s *stubBDCService) RefreshAll(ctx context.Context) (*models.RefreshSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

type notFoundError string

func (e notFoundError) Error() string { return "bdc '" + string(e) + "' not found" }

func errNotFound(cik string) error { return notFoundError(cik) }

// stubWatchlistService returns canned items and records removals.
type stubWatchlistService struct {
	items    []models.WatchlistItem
	itemErrs []string
	err      error
	removed  []string
}

func (s *stubWatchlistService) List(ctx context.Context) ([]models.WatchlistItem, error) {
	return s.items, s.err
}

func (s *stubWatchlistService) GetOrRefresh(ctx context.Context, ticker string) (*models.WatchlistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.items {
		if s.items[i].Ticker == models.NormalizeTicker(ticker) {
			return &s.items[i], nil
		}
	}
	return nil, errNotFound(ticker)
}

func (s *stubWatchlistService) AnalyzeBatch(ctx context.Context, tickers []string) ([]models.WatchlistItem, []string, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.items, s.itemErrs, nil
}

func (s *stubWatchlistService) Remove(ctx context.Context, ticker string) error {
	s.removed = append(s.removed, models.NormalizeTicker(ticker))
	return s.err
}

// stubIngestService returns one canned result per requested CIK.
type stubIngestService struct {
	results []models.IngestResult
	err     error
	singles []string
}

func (s *stubIngestService) IngestAll(ctx context.Context) ([]models.IngestResult, error) {
	return s.results, s.err
}

func (s *stubIngestService) IngestOne(ctx context.Context, cik string) (*models.IngestResult, error) {
	s.singles = append(s.singles, cik)
	if s.err != nil {
		return nil, s.err
	}
	return &models.IngestResult{CIK: cik, Status: models.IngestStatusIngested, Holdings: 3}, nil
}

var (
	_ interfaces.BDCService       = (*stubBDCService)(nil)
	_ interfaces.WatchlistService = (*stubWatchlistService)(nil)
	_ interfaces.IngestService    = (*stubIngestService)(nil)
)

// testServices bundles the stubs behind a test server for assertions.
type testServices struct {
	bdcs      *stubBDCService
	watchlist *stubWatchlistService
	ingest    *stubIngestService
}

func newTestServer(t *testing.T) (*Server, *testServices) {
	t.Helper()

	svcs := &testServices{
		bdcs:      &stubBDCService{averages: map[string]float64{}},
		watchlist: &stubWatchlistService{},
		ingest:    &stubIngestService{},
	}

	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		BDCService:       svcs.bdcs,
		WatchlistService: svcs.watchlist,
		IngestService:    svcs.ingest,
	}

	return NewServer(a), svcs
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func doRequest(srv *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// --- helper tests ---

func TestPathParam(t *testing.T) {
	tests := []struct {
		path     string
		prefix   string
		suffix   string
		expected string
	}{
		{"/api/bdcs/0001287750", "/api/bdcs/", "", "0001287750"},
		{"/api/bdcs/0001287750/holdings", "/api/bdcs/", "/holdings", "0001287750"},
		{"/api/watchlist/ARCC", "/api/watchlist/", "", "ARCC"},
		{"/api/other/x", "/api/bdcs/", "", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		assert.Equal(t, tt.expected, PathParam(req, tt.prefix, tt.suffix), tt.path)
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/bdcs", nil)
	rec := httptest.NewRecorder()

	ok := RequireMethod(rec, req, http.MethodGet, http.MethodPost)
	assert.False(t, ok)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	var v map[string]interface{}
	ok := DecodeJSON(rec, req, &v)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "missing", resp.Error)
}
