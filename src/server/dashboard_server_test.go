package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-dashboard/src/analysis"
	"market-dashboard/src/data_source"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/utils"
)

// The server is the host's data-exchange boundary.
var _ interfaces.IDataExchanger = (*DashboardServer)(nil)

// -----------------------------------------------------------------------------

func newTestServer(t *testing.T) *DashboardServer {
	t.Helper()

	cfg := &models.MConfig{
		Host:     "127.0.0.1",
		Port:     0,
		LogLevel: "error",
		Dashboard: models.MDashboardConfig{
			Symbols:                []string{"AAPL", "MSFT"},
			Indices:                []string{"^GSPC"},
			Period:                 "1mo",
			RefreshIntervalSeconds: 60,
			ConcurrentSnapshots:    4,
			HistoryPoints:          100,
			MaxComparisonPoints:    500,
		},
	}
	log := logger.NewLogger("error", "test")
	provider := datasource.NewMockProvider()
	fetcher := datasource.NewFetcher(provider, cfg, log)
	facade := analysis.NewFacade(cfg, log)
	cache := utils.NewSnapshotCache(time.Minute)
	history := utils.NewSnapshotHistory(100)

	return NewDashboardServer(cfg, log, fetcher, facade, cache, history)
}

func doGET(s *DashboardServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

// -----------------------------------------------------------------------------

func TestGetDashboardServesLatestState(t *testing.T) {
	s := newTestServer(t)
	s.UpdateState(&models.MDashboardState{
		Type:         "UPDATE",
		Quotes:       map[string]models.MQuoteSnapshot{"AAPL": {Symbol: "AAPL", CurrentPrice: 123.45}},
		Indices:      map[string]models.MIndexSnapshot{},
		MarketStatus: models.MarketStatusOpen,
		Timestamp:    1700000000,
	})

	w := doGET(s, "/api/dashboard")
	require.Equal(t, 200, w.Code)

	var state models.MDashboardState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 123.45, state.Quotes["AAPL"].CurrentPrice)
	assert.Equal(t, int64(1700000000), state.Timestamp)
}

// -----------------------------------------------------------------------------

func TestGetQuotesOnDemandAndCached(t *testing.T) {
	s := newTestServer(t)

	w := doGET(s, "/api/quotes?symbols=AAPL,MSFT&period=1mo")
	require.Equal(t, 200, w.Code)

	var first struct {
		Quotes map[string]models.MQuoteSnapshot `json:"quotes"`
		Cached bool                             `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.Len(t, first.Quotes, 2)
	assert.Greater(t, first.Quotes["AAPL"].CurrentPrice, 0.0)

	// Same symbol set in a different order must hit the cache.
	w = doGET(s, "/api/quotes?symbols=MSFT,AAPL&period=1mo")
	require.Equal(t, 200, w.Code)

	var second struct {
		Cached bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)
}

func TestGetQuotesValidation(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, 400, doGET(s, "/api/quotes").Code)
	assert.Equal(t, 400, doGET(s, "/api/quotes?symbols=AAPL&period=2centuries").Code)
}

// -----------------------------------------------------------------------------

func TestGetHistory(t *testing.T) {
	s := newTestServer(t)
	s.History.Record(models.MQuoteSnapshot{
		Symbol:       "AAPL",
		CurrentPrice: 101,
		LastUpdate:   time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	})

	w := doGET(s, "/api/history?symbol=AAPL")
	require.Equal(t, 200, w.Code)

	var resp struct {
		Symbol string                 `json:"symbol"`
		Points []models.MHistoryPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 1)
	assert.Equal(t, 101.0, resp.Points[0].Price)

	assert.Equal(t, 400, doGET(s, "/api/history").Code)
}

// -----------------------------------------------------------------------------

func TestGetStatusAndHealth(t *testing.T) {
	s := newTestServer(t)
	s.UpdateState(&models.MDashboardState{
		Quotes:       map[string]models.MQuoteSnapshot{},
		Indices:      map[string]models.MIndexSnapshot{},
		MarketStatus: models.MarketStatusClosedRecent,
		Timestamp:    42,
	})

	w := doGET(s, "/api/status")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"closed_recent"`)

	w = doGET(s, "/api/health")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetConfig(t *testing.T) {
	s := newTestServer(t)
	w := doGET(s, "/api/config")
	require.Equal(t, 200, w.Code)

	var resp struct {
		Symbols      []string `json:"symbols"`
		ValidPeriods []string `json:"valid_periods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"AAPL", "MSFT"}, resp.Symbols)
	assert.Contains(t, resp.ValidPeriods, "1y")
}

// -----------------------------------------------------------------------------

func TestStopTerminatesHubLoop(t *testing.T) {
	s := newTestServer(t)

	stopped := make(chan struct{})
	go func() {
		s.handleWebsockets()
		close(stopped)
	}()

	client := &Client{hub: s, send: make(chan *models.MDashboardState, 16)}
	s.register <- client

	require.NoError(t, s.Stop())
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub loop still running after Stop")
	}

	// The registered client received the initial state and then had its
	// channel closed by the shutdown sweep.
	state, ok := <-client.send
	require.True(t, ok)
	assert.Equal(t, "INITIAL", state.Type)
	_, ok = <-client.send
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.clientCount.Load())
}

// -----------------------------------------------------------------------------

func TestFilteredResponse(t *testing.T) {
	s := newTestServer(t)
	s.UpdateState(&models.MDashboardState{
		Quotes: map[string]models.MQuoteSnapshot{
			"AAPL": {Symbol: "AAPL"},
			"MSFT": {Symbol: "MSFT"},
		},
		Indices: map[string]models.MIndexSnapshot{"^GSPC": {Symbol: "^GSPC"}},
		Errors: []models.MFetchError{
			{Symbol: "MSFT", Kind: models.ErrKindNoData},
			{Symbol: "AAPL", Kind: models.ErrKindDegradedMetadata},
		},
		MarketStatus: models.MarketStatusOpen,
	})

	s.stateMutex.RLock()
	filtered := s.filteredResponse([]string{"AAPL"})
	full := s.filteredResponse(nil)
	s.stateMutex.RUnlock()

	assert.Equal(t, "INITIAL", filtered.Type)
	assert.Len(t, filtered.Quotes, 1)
	assert.Empty(t, filtered.Indices)
	require.Len(t, filtered.Errors, 1)
	assert.Equal(t, "AAPL", filtered.Errors[0].Symbol)
	assert.Equal(t, models.MarketStatusOpen, filtered.MarketStatus)

	assert.Len(t, full.Quotes, 2)
	assert.Equal(t, "INITIAL", full.Type)
}
