package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/bdcwatch/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// BDC composite views
	mux.HandleFunc("/api/bdcs/", s.handleBDCByCIK)
	mux.HandleFunc("/api/bdcs", s.handleBDCList)

	// Data pipelines
	mux.HandleFunc("/api/ingest", s.handleIngest)
	mux.HandleFunc("/api/refresh", s.handleRefresh)

	// Watchlist
	mux.HandleFunc("/api/watchlist/analyze", s.handleWatchlistAnalyze)
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistTicker)
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"storage_path":      s.app.Config.Storage.Path,
		"logging_level":     s.app.Config.Logging.Level,
		"refresh_schedule":  s.app.Config.Refresh.Schedule,
		"ingest_min_rows":   s.app.Config.Ingest.MinHoldings,
		"quote_configured":  s.app.QuoteClient != nil,
		"gemini_configured": s.app.AnalysisClient != nil,
		"edgar_configured":  s.app.FilingClient != nil,
		"uptime":            time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// handleBDCByCIK dispatches /api/bdcs/{cik}.
func (s *Server) handleBDCByCIK(w http.ResponseWriter, r *http.Request) {
	cik := strings.TrimPrefix(r.URL.Path, "/api/bdcs/")
	if cik == "" || strings.Contains(cik, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleBDCGet(w, r, cik)
}

// handleWatchlistTicker dispatches /api/watchlist/{ticker}.
func (s *Server) handleWatchlistTicker(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimPrefix(r.URL.Path, "/api/watchlist/")
	if ticker == "" || strings.Contains(ticker, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleWatchlistRemove(w, r, ticker)
}
