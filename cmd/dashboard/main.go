package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-dashboard/src/analysis"
	"market-dashboard/src/config"
	"market-dashboard/src/data_source"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/server"
	"market-dashboard/src/storage"
	"market-dashboard/src/utils"
)

// -----------------------------------------------------------------------------

// When every tracked venue is closed nothing changes between daily bars, so
// the refresh cadence is stretched by this factor.
const closedMarketSlowdown = 5

// -----------------------------------------------------------------------------

func main() {

	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// Storage
	var db interfaces.IDatabase
	switch cfg.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(cfg.MConfig, appLogger)
	default:
		db, err = storage.NewSQLiteDB(cfg.MConfig, appLogger)
	}
	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate db: %v", err)
	}
	defer db.Close()

	// Components
	refreshInterval := time.Duration(cfg.Dashboard.RefreshIntervalSeconds) * time.Second

	provider := datasource.NewStoreProvider(db, appLogger.Named("provider"))
	fetcher := datasource.NewFetcher(provider, cfg.MConfig, appLogger.Named("fetcher"))
	facade := analysis.NewFacade(cfg.MConfig, appLogger.Named("analysis"))
	cache := utils.NewSnapshotCache(refreshInterval)
	history := utils.NewSnapshotHistory(cfg.Dashboard.HistoryPoints)

	tracked := append([]string{}, cfg.Dashboard.Symbols...)
	tracked = append(tracked, cfg.Dashboard.Indices...)
	scheduler := utils.NewMarketScheduler(tracked, appLogger.Named("scheduler"))

	var srv interfaces.IDataExchanger = server.NewDashboardServer(cfg.MConfig, appLogger.Named("server"), fetcher, facade, cache, history)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial cycle before the server starts answering.
	state := refresh(ctx, fetcher, facade, db, history, cache, cfg.MConfig, appLogger)
	state.Type = "INITIAL"
	srv.UpdateState(state)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	appLogger.Info("Starting refresh loop (every %s)", refreshInterval)
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	skipped := 0
	for {
		select {
		case <-ticker.C:
			// Off-hours, refresh only every Nth tick.
			if !scheduler.AnyMarketOpen() {
				skipped++
				if skipped < closedMarketSlowdown {
					continue
				}
			}
			skipped = 0

			state := refresh(ctx, fetcher, facade, db, history, cache, cfg.MConfig, appLogger)
			srv.Broadcast(state)

			if err := db.CleanupOldData(); err != nil {
				appLogger.Warning("Cleanup failed: %v", err)
			}

		case <-quit:
			appLogger.Info("Shutting down...")
			cancel()
			srv.Stop()
			return
		}
	}
}

// -----------------------------------------------------------------------------

// refresh runs one full cycle: fetch the configured series, derive the
// dashboard state, persist the snapshots and record the history points.
func refresh(
	ctx context.Context,
	fetcher *datasource.Fetcher,
	facade *analysis.Facade,
	db interfaces.IDatabase,
	history *utils.SnapshotHistory,
	cache *utils.SnapshotCache,
	cfg *models.MConfig,
	log *logger.Logger,
) *models.MDashboardState {

	now := time.Now().UTC()
	data := fetcher.FetchAll(ctx, cfg.Dashboard.Period)
	state := facade.BuildDashboard(ctx, data, now)

	snaps := make([]models.MQuoteSnapshot, 0, len(state.Quotes))
	for _, snap := range state.Quotes {
		snaps = append(snaps, snap)
		history.Record(snap)
	}
	if err := db.SaveSnapshots(snaps); err != nil {
		log.Warning("Failed to persist snapshots: %v", err)
	}

	// New bars may have landed in storage; memoized on-demand results are
	// stale now.
	cache.Invalidate()

	log.Info("Cycle done: %d quotes, %d indices, %d errors, status=%s",
		len(state.Quotes), len(state.Indices), len(state.Errors), state.MarketStatus)
	return state
}
