package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-dashboard/src/models"
)

func TestResampleBarsWeekly(t *testing.T) {
	// Ten daily bars into 5-day buckets.
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, 10)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = models.MPriceBar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      p,
			High:      p + 2,
			Low:       p - 2,
			Close:     p + 1,
			Volume:    100,
		}
	}

	out := ResampleBars(bars, 5*24*3600)

	require.True(t, len(out) < len(bars))
	total := 0.0
	for _, b := range out {
		total += b.Volume
	}
	assert.Equal(t, 1000.0, total, "volume is conserved")

	for i := 1; i < len(out); i++ {
		assert.True(t, out[i].Timestamp.After(out[i-1].Timestamp), "ascending order")
	}

	first := out[0]
	assert.Equal(t, bars[0].Open, first.Open)
	assert.GreaterOrEqual(t, first.High, first.Low)
}

func TestResampleBarsPassThrough(t *testing.T) {
	assert.Empty(t, ResampleBars(nil, 3600))

	bars := []models.MPriceBar{{Timestamp: time.Now(), Close: 10}}
	assert.Equal(t, bars, ResampleBars(bars, 0), "non-positive window is a no-op")
}

func TestBucketSeconds(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, 365)
	for i := range bars {
		bars[i] = models.MPriceBar{Timestamp: start.AddDate(0, 0, i), Close: 1}
	}

	width := bucketSeconds(bars, 100)
	assert.Positive(t, width)
	assert.Zero(t, width%(24*3600), "whole days")

	out := ResampleBars(bars, width)
	assert.LessOrEqual(t, len(out), 102, "roughly bounded by maxPoints")

	assert.Zero(t, bucketSeconds(nil, 100))
	assert.Zero(t, bucketSeconds(bars[:1], 100))
}
