package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
	"github.com/bobmcallan/bdcwatch/internal/services/bdc"
)

// handleBDCList handles GET /api/bdcs.
// Query parameters: sort (metric name, "name", "total_fair_value", or
// "sector:<name>"), dir (asc|desc), sector (exposure filter).
func (s *Server) handleBDCList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	opts := interfaces.ViewOptions{
		SortKey:      r.URL.Query().Get("sort"),
		SectorFilter: r.URL.Query().Get("sector"),
	}
	if opts.SortKey == "" {
		opts.SortKey = bdc.DefaultSortKey
	}

	// Descending is the default: the interesting entities sit at the top.
	switch strings.ToLower(r.URL.Query().Get("dir")) {
	case "asc":
		opts.Descending = false
	default:
		opts.Descending = true
	}

	views, err := s.app.BDCService.BuildViews(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build BDC views")
		WriteError(w, http.StatusInternalServerError, "Failed to build BDC views: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bdcs":     views,
		"count":    len(views),
		"sort":     opts.SortKey,
		"averages": s.app.BDCService.Averages(views),
	})
}

// handleBDCGet handles GET /api/bdcs/{cik}.
func (s *Server) handleBDCGet(w http.ResponseWriter, r *http.Request, cik string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	view, err := s.app.BDCService.GetView(r.Context(), cik)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "BDC not found: "+cik)
			return
		}
		s.logger.Error().Err(err).Str("cik", cik).Msg("Failed to load BDC view")
		WriteError(w, http.StatusInternalServerError, "Failed to load BDC: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// ingestRequest optionally narrows ingestion to specific CIKs.
type ingestRequest struct {
	CIKs []string `json:"ciks"`
}

// handleIngest handles POST /api/ingest. An empty body (or empty ciks array)
// runs ingestion for every seeded entity.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req ingestRequest
	if r.ContentLength > 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	var results []models.IngestResult
	if len(req.CIKs) == 0 {
		all, err := s.app.IngestService.IngestAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Ingestion run failed")
			WriteError(w, http.StatusInternalServerError, "Ingestion failed: "+err.Error())
			return
		}
		results = all
	} else {
		for _, cik := range req.CIKs {
			result, err := s.app.IngestService.IngestOne(ctx, cik)
			if err != nil {
				results = append(results, models.IngestResult{
					CIK:    cik,
					Status: models.IngestStatusError,
					Error:  err.Error(),
				})
				continue
			}
			results = append(results, *result)
		}
	}

	ingested, synthetic, failed := 0, 0, 0
	for _, res := range results {
		switch res.Status {
		case models.IngestStatusIngested:
			ingested++
		case models.IngestStatusSynthetic:
			synthetic++
		default:
			failed++
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":   results,
		"ingested":  ingested,
		"synthetic": synthetic,
		"errors":    failed,
	})
}

// handleRefresh handles POST /api/refresh. This is the entry point an
// external scheduler hits; the internal cron job shares the same service call.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	summary, err := s.app.BDCService.RefreshAll(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Metrics refresh failed")
		WriteError(w, http.StatusInternalServerError, "Refresh failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleWatchlist handles GET /api/watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	items, err := s.app.WatchlistService.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load watchlist")
		WriteError(w, http.StatusInternalServerError, "Failed to load watchlist: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// analyzeRequest is the POST /api/watchlist/analyze body.
type analyzeRequest struct {
	Tickers []string `json:"tickers"`
}

// handleWatchlistAnalyze handles POST /api/watchlist/analyze. Batch size
// violations come back as 400 before any upstream call is made.
func (s *Server) handleWatchlistAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	items, itemErrs, err := s.app.WatchlistService.AnalyzeBatch(r.Context(), req.Tickers)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"errors": itemErrs,
		"count":  len(items),
	})
}

// handleWatchlistRemove handles DELETE /api/watchlist/{ticker}. Removing an
// absent ticker still returns 200.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := s.app.WatchlistService.Remove(r.Context(), ticker); err != nil {
		s.logger.Error().Err(err).Str("ticker", ticker).Msg("Failed to remove watchlist item")
		WriteError(w, http.StatusInternalServerError, "Failed to remove item: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "removed",
		"ticker": models.NormalizeTicker(ticker),
	})
}
