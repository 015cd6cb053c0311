package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	cfg := &models.MConfig{
		Name: "test-dashboard",
		Storage: models.MStorageConfig{
			DBType:        "sqlite",
			DBPath:        ":memory:",
			RetentionDays: 400,
		},
	}

	db, err := NewSQLiteDB(cfg, logger.NewLogger("ERROR", "sqlite-test"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

// -----------------------------------------------------------------------------

func TestSaveAndLoadSeries(t *testing.T) {
	db := newTestDB(t)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := []models.MPriceBar{
		{Timestamp: start, Open: 100, High: 102, Low: 99, Close: 101, Volume: 1000},
		{Timestamp: start.AddDate(0, 0, 1), Open: 101, High: 104, Low: 100, Close: 103, Volume: 1200},
		{Timestamp: start.AddDate(0, 0, 2), Open: 103, High: 103.5, Low: 101, Close: 102, Volume: 900},
	}
	require.NoError(t, db.SaveBarsBulk("AAPL", bars))

	series, err := db.LoadSeries("AAPL", start)
	require.NoError(t, err)
	require.Len(t, series.Bars, 3)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, 101.0, series.Bars[0].Close)
	assert.Equal(t, 102.0, series.Bars[2].Close)

	// Window start filters out earlier bars.
	partial, err := db.LoadSeries("AAPL", start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, partial.Bars, 2)

	// Unknown symbol: empty but valid, not an error.
	empty, err := db.LoadSeries("NOPE", start)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestSaveBarsBulkUpsert(t *testing.T) {
	db := newTestDB(t)

	ts := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveBarsBulk("TSLA", []models.MPriceBar{
		{Timestamp: ts, Close: 250, Volume: 100},
	}))
	require.NoError(t, db.SaveBarsBulk("TSLA", []models.MPriceBar{
		{Timestamp: ts, Close: 255, Volume: 150},
	}))

	series, err := db.LoadSeries("TSLA", ts.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, series.Bars, 1, "same timestamp replaces, never duplicates")
	assert.Equal(t, 255.0, series.Bars[0].Close)
}

func TestSymbolInfoRoundTrip(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveSymbolInfo(models.MSymbolInfo{
		Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", Currency: "USD",
	}))

	info, err := db.GetSymbolInfo("MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", info.Name)

	_, err = db.GetSymbolInfo("UNKNOWN")
	assert.Error(t, err)
}

func TestSaveSnapshotsAndCleanup(t *testing.T) {
	db := newTestDB(t)

	old := time.Now().UTC().AddDate(0, 0, -500)
	fresh := time.Now().UTC()

	require.NoError(t, db.SaveSnapshots([]models.MQuoteSnapshot{
		{Symbol: "AAPL", LastUpdate: old, CurrentPrice: 180},
		{Symbol: "AAPL", LastUpdate: fresh, CurrentPrice: 230},
	}))
	require.NoError(t, db.SaveBarsBulk("AAPL", []models.MPriceBar{
		{Timestamp: old, Close: 180},
		{Timestamp: fresh, Close: 230},
	}))

	require.NoError(t, db.CleanupOldData())

	series, err := db.LoadSeries("AAPL", old.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Len(t, series.Bars, 1, "bars beyond retention are removed")

	var count int
	require.NoError(t, db.DB.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count))
	assert.Equal(t, 1, count)
}
