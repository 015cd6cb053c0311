package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-dashboard/src/models"
)

func day(offset int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func seriesFromCloses(symbol string, closes []float64, volumes []float64) models.MInstrumentSeries {
	bars := make([]models.MPriceBar, len(closes))
	for i, c := range closes {
		vol := 1000.0
		if volumes != nil {
			vol = volumes[i]
		}
		bars[i] = models.MPriceBar{
			Timestamp: day(i),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    vol,
		}
	}
	return models.MInstrumentSeries{Symbol: symbol, Bars: bars}
}

// -----------------------------------------------------------------------------

func TestComputeSnapshotEmptySeries(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	snap := ComputeSnapshot(models.MInstrumentSeries{Symbol: "AAPL"}, now)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Zero(t, snap.CurrentPrice)
	assert.Zero(t, snap.PreviousClose)
	assert.Zero(t, snap.AbsoluteChange)
	assert.Zero(t, snap.PercentChange)
	assert.Zero(t, snap.DayHigh)
	assert.Zero(t, snap.DayLow)
	assert.Zero(t, snap.AverageVolume30)
	assert.Zero(t, snap.VolumeRatio)
	assert.Zero(t, snap.Volatility)
	assert.Empty(t, snap.Normalized)
	assert.Equal(t, now, snap.LastUpdate, "empty series defaults to computation time")
}

func TestComputeSnapshotSingleBar(t *testing.T) {
	series := seriesFromCloses("MSFT", []float64{410}, nil)
	snap := ComputeSnapshot(series, day(5))

	assert.Equal(t, 410.0, snap.CurrentPrice)
	assert.Equal(t, 410.0, snap.PreviousClose)
	assert.Zero(t, snap.AbsoluteChange)
	assert.Zero(t, snap.PercentChange)
	assert.Equal(t, day(0), snap.LastUpdate)
}

func TestComputeSnapshotChangeAndVolumeRatio(t *testing.T) {
	// bars = [{close:100,volume:1000},{close:105,volume:1500}]
	series := seriesFromCloses("TSLA", []float64{100, 105}, []float64{1000, 1500})
	snap := ComputeSnapshot(series, day(2))

	assert.Equal(t, 105.0, snap.CurrentPrice)
	assert.Equal(t, 100.0, snap.PreviousClose)
	assert.Equal(t, 5.0, snap.AbsoluteChange)
	assert.InDelta(t, 5.0, snap.PercentChange, 1e-9)

	// volumeRatio = 1500 / mean([1000, 1500]) = 1500/1250 = 1.2
	assert.InDelta(t, 1250.0, snap.AverageVolume30, 1e-9)
	assert.InDelta(t, 1.2, snap.VolumeRatio, 1e-9)
}

func TestComputeSnapshotCurrentPriceIsLastClose(t *testing.T) {
	series := seriesFromCloses("AMZN", []float64{180, 182, 179, 185.5}, nil)
	snap := ComputeSnapshot(series, day(10))

	require.NotEmpty(t, series.Bars)
	assert.Equal(t, series.Bars[len(series.Bars)-1].Close, snap.CurrentPrice)
	assert.Equal(t, series.Bars[len(series.Bars)-1].Timestamp, snap.LastUpdate)
}

func TestComputeSnapshotZeroPreviousCloseGuard(t *testing.T) {
	// bars = [{close:0},{close:10}] must not divide by zero.
	series := seriesFromCloses("PENNY", []float64{0, 10}, nil)
	snap := ComputeSnapshot(series, day(2))

	assert.Equal(t, 10.0, snap.CurrentPrice)
	assert.Equal(t, 10.0, snap.AbsoluteChange)
	assert.Zero(t, snap.PercentChange, "divide-by-zero defined as 0%, not Inf")
}

func TestComputeSnapshotRangeCoversFullWindow(t *testing.T) {
	series := models.MInstrumentSeries{
		Symbol: "GOOGL",
		Bars: []models.MPriceBar{
			{Timestamp: day(0), Open: 100, High: 120, Low: 95, Close: 110, Volume: 500},
			{Timestamp: day(1), Open: 110, High: 115, Low: 90, Close: 105, Volume: 700},
			{Timestamp: day(2), Open: 105, High: 108, Low: 101, Close: 103, Volume: 600},
		},
	}
	snap := ComputeSnapshot(series, day(3))

	assert.Equal(t, 120.0, snap.DayHigh)
	assert.Equal(t, 90.0, snap.DayLow)
}

func TestComputeSnapshotVolumeAverageWindow(t *testing.T) {
	// 40 bars: the rolling average must only cover the last 30.
	closes := make([]float64, 40)
	volumes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 10 // first 10 bars get overwritten below
	}
	for i := 10; i < 40; i++ {
		volumes[i] = 2000
	}
	series := seriesFromCloses("NVDA", closes, volumes)
	snap := ComputeSnapshot(series, day(41))

	assert.InDelta(t, 2000.0, snap.AverageVolume30, 1e-9)
	assert.InDelta(t, 1.0, snap.VolumeRatio, 1e-9)
}

func TestComputeSnapshotVolatility(t *testing.T) {
	// Returns: 0.05, -0.05. Sample std of {0.05, -0.05} = sqrt(0.005).
	series := seriesFromCloses("META", []float64{100, 105, 99.75}, nil)
	snap := ComputeSnapshot(series, day(3))

	assert.InDelta(t, 0.0707107, snap.Volatility, 1e-6)

	// Fewer than two returns -> volatility defined as 0.
	short := seriesFromCloses("META", []float64{100, 105}, nil)
	assert.Zero(t, ComputeSnapshot(short, day(2)).Volatility)
}

// -----------------------------------------------------------------------------

func TestComputeIndexSnapshot(t *testing.T) {
	series := seriesFromCloses("^GSPC", []float64{6400, 6432}, nil)
	snap := ComputeIndexSnapshot(series, day(2))

	assert.Equal(t, 6432.0, snap.Value)
	assert.Equal(t, 32.0, snap.Change)
	assert.InDelta(t, 0.5, snap.ChangePercent, 1e-9)
	assert.Equal(t, day(1), snap.LastUpdate)
}

func TestComputeIndexSnapshotEdgeCases(t *testing.T) {
	now := day(7)

	empty := ComputeIndexSnapshot(models.MInstrumentSeries{Symbol: "^DJI"}, now)
	assert.Zero(t, empty.Value)
	assert.Zero(t, empty.Change)
	assert.Zero(t, empty.ChangePercent)
	assert.Equal(t, now, empty.LastUpdate)

	single := ComputeIndexSnapshot(seriesFromCloses("^IXIC", []float64{21000}, nil), now)
	assert.Equal(t, 21000.0, single.Value)
	assert.Zero(t, single.Change)

	zeroPrev := ComputeIndexSnapshot(seriesFromCloses("^BAD", []float64{0, 50}, nil), now)
	assert.Zero(t, zeroPrev.ChangePercent)
}
