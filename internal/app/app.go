// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/bdcwatch-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/bdcwatch/internal/clients/edgar"
	"github.com/bobmcallan/bdcwatch/internal/clients/fmp"
	"github.com/bobmcallan/bdcwatch/internal/clients/gemini"
	"github.com/bobmcallan/bdcwatch/internal/clients/yahoo"
	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/services/bdc"
	"github.com/bobmcallan/bdcwatch/internal/services/ingest"
	"github.com/bobmcallan/bdcwatch/internal/services/watchlist"
	"github.com/bobmcallan/bdcwatch/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	AnalysisClient   interfaces.AnalysisClient
	FilingClient     interfaces.FilingClient
	BDCService       interfaces.BDCService
	WatchlistService interfaces.WatchlistService
	IngestService    interfaces.IngestService
	StartupTime      time.Time

	scheduler *scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: explicit path, BDCWATCH_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("BDCWATCH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "bdcwatch.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/bdcwatch.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	kvStore := storageManager.KeyValueStore()

	fmpKey, err := common.ResolveAPIKey(ctx, kvStore, "fmp_api_key", config.Clients.FMP.APIKey)
	if err != nil {
		logger.Warn().Msg("FMP API key not configured - falling back to Yahoo Finance quotes")
	}

	geminiKey, err := common.ResolveAPIKey(ctx, kvStore, "gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - watchlist items will carry placeholder analysis")
	}

	// Quote client: FMP when keyed, Yahoo otherwise.
	var quoteClient interfaces.QuoteClient
	if fmpKey != "" {
		quoteClient = fmp.NewClient(fmpKey,
			fmp.WithLogger(logger),
			fmp.WithBaseURL(config.Clients.FMP.BaseURL),
			fmp.WithRateLimit(config.Clients.FMP.RateLimit),
			fmp.WithTimeout(config.Clients.FMP.GetTimeout()),
		)
	} else {
		quoteClient = yahoo.NewClient(yahoo.WithLogger(logger))
	}

	var analysisClient interfaces.AnalysisClient
	if geminiKey != "" {
		geminiClient, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			analysisClient = geminiClient
		}
	}

	filingClient := edgar.NewClient(
		edgar.WithLogger(logger),
		edgar.WithUserAgent(config.Clients.EDGAR.UserAgent),
		edgar.WithTimeout(config.Clients.EDGAR.GetTimeout()),
	)

	bdcService := bdc.NewService(storageManager, quoteClient, logger,
		bdc.WithMinDelay(config.Refresh.GetMinDelay().Seconds()))
	watchlistService := watchlist.NewService(storageManager, quoteClient, analysisClient, logger)
	ingestService := ingest.NewService(storageManager, filingClient, logger,
		ingest.WithMinHoldings(config.Ingest.MinHoldings))

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		AnalysisClient:   analysisClient,
		FilingClient:     filingClient,
		BDCService:       bdcService,
		WatchlistService: watchlistService,
		IngestService:    ingestService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, close storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
