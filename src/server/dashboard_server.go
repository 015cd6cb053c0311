package server

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"market-dashboard/src/analysis"
	"market-dashboard/src/data_source"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/utils"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Fetcher *datasource.Fetcher
	Facade  *analysis.Facade
	Cache   *utils.SnapshotCache
	History *utils.SnapshotHistory
	engine  *gin.Engine

	// WebSocket clients; the map is owned by the hub loop, handlers read
	// only the counter.
	clients     map[*Client]struct{}
	clientCount atomic.Int64
	broadcast   chan *models.MDashboardState
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}

	// Local cache of the last refresh cycle
	latestState *models.MDashboardState
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(
	cfg *models.MConfig,
	log *logger.Logger,
	fetcher *datasource.Fetcher,
	facade *analysis.Facade,
	cache *utils.SnapshotCache,
	history *utils.SnapshotHistory,
) *DashboardServer {

	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:  cfg,
		Logger:  log,
		Fetcher: fetcher,
		Facade:  facade,
		Cache:   cache,
		History: history,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so a refresh cycle never blocks on the hub loop.
		broadcast:  make(chan *models.MDashboardState, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latestState: &models.MDashboardState{
			Type:    "INITIAL",
			Quotes:  make(map[string]models.MQuoteSnapshot),
			Indices: make(map[string]models.MIndexSnapshot),
		},
	}

	s.engine.Use(corsMiddleware())
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	s.engine.GET("/api/dashboard", s.getDashboard)
	s.engine.GET("/api/quotes", s.getQuotes)
	s.engine.GET("/api/status", s.getStatus)
	s.engine.GET("/api/history", s.getHistory)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/health", s.getHealth)

	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

// Stop signals the hub loop to shut down. The register/unregister channels
// stay open so in-flight client goroutines never send on a closed channel.
func (s *DashboardServer) Stop() error {
	close(s.done)
	return nil
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a refreshed state for delivery to all connected clients.
func (s *DashboardServer) Broadcast(state *models.MDashboardState) {
	state.Type = "UPDATE"
	s.broadcast <- state
}

// -----------------------------------------------------------------------------

// UpdateState replaces the cached state without notifying clients.
func (s *DashboardServer) UpdateState(state *models.MDashboardState) {
	s.stateMutex.Lock()
	s.latestState = state
	s.stateMutex.Unlock()
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getDashboard(c *gin.Context) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	c.JSON(200, s.latestState)
}

// -----------------------------------------------------------------------------

// getQuotes computes snapshots on demand for an arbitrary symbol set and
// period. Results are memoized for one refresh cadence; the bars cannot
// change between cycles.
func (s *DashboardServer) getQuotes(c *gin.Context) {
	symbolsParam := c.Query("symbols")
	if symbolsParam == "" {
		c.JSON(400, gin.H{"error": "missing symbols parameter"})
		return
	}
	symbols := splitSymbols(symbolsParam)

	period := c.DefaultQuery("period", s.Config.Dashboard.Period)
	if _, err := models.ParsePeriod(period); err != nil {
		c.JSON(400, gin.H{"error": err.Error(), "valid_periods": models.ValidPeriods()})
		return
	}

	key := utils.CacheKey(symbols, period)
	if quotes, errs, ok := s.Cache.Get(key); ok {
		c.JSON(200, gin.H{"quotes": quotes, "errors": errs, "cached": true})
		return
	}

	series, fetchErrs := s.Fetcher.FetchSymbols(c.Request.Context(), symbols, period)
	quotes, annotations := s.Facade.SnapshotBatch(c.Request.Context(), series, time.Now().UTC())
	errs := append(fetchErrs, annotations...)

	s.Cache.Put(key, quotes, errs)
	c.JSON(200, gin.H{"quotes": quotes, "errors": errs, "cached": false})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getStatus(c *gin.Context) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"market_status": s.latestState.MarketStatus,
		"timestamp":     s.latestState.Timestamp,
	})
}

// -----------------------------------------------------------------------------

// getHistory serves the in-memory ring of recent refresh observations for
// one symbol.
func (s *DashboardServer) getHistory(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(400, gin.H{"error": "missing symbol parameter"})
		return
	}

	limit := s.Config.Dashboard.HistoryPoints
	if limit <= 0 {
		limit = 500
	}
	points := s.History.Latest(symbol, limit)
	c.JSON(200, gin.H{"symbol": symbol, "points": points})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	c.JSON(200, gin.H{
		"symbols":                  s.Config.Dashboard.Symbols,
		"indices":                  s.Config.Dashboard.Indices,
		"period":                   s.Config.Dashboard.Period,
		"valid_periods":            models.ValidPeriods(),
		"refresh_interval_seconds": s.Config.Dashboard.RefreshIntervalSeconds,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()
	connections := s.clientCount.Load()

	hits, misses := s.Cache.Stats()
	c.JSON(200, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": timestamp,
		"cache_hits":    hits,
		"cache_misses":  misses,
	})
}

// -----------------------------------------------------------------------------

func splitSymbols(param string) []string {
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
