package analysis

import (
	"sort"
	"time"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------

// ResampleBars aggregates daily bars into coarser OHLCV buckets of
// windowSeconds width. Buckets are aligned to the Unix epoch; an aggregated
// bar carries the first open, last close, extreme high/low, summed volume
// and the timestamp of its last source bar. Input ordering is preserved by
// bucket start. Empty input or a non-positive window returns the input.
func ResampleBars(bars []models.MPriceBar, windowSeconds int64) []models.MPriceBar {
	if len(bars) == 0 || windowSeconds <= 0 {
		return bars
	}

	buckets := make(map[int64][]models.MPriceBar)
	for _, b := range bars {
		ts := b.Timestamp.Unix()
		start := ts - (ts % windowSeconds)
		buckets[start] = append(buckets[start], b)
	}

	starts := make([]int64, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	out := make([]models.MPriceBar, 0, len(starts))
	for _, start := range starts {
		group := buckets[start]

		agg := models.MPriceBar{
			Timestamp: group[len(group)-1].Timestamp,
			Open:      group[0].Open,
			High:      group[0].High,
			Low:       group[0].Low,
			Close:     group[len(group)-1].Close,
		}
		for _, b := range group {
			if b.High > agg.High {
				agg.High = b.High
			}
			if b.Low < agg.Low {
				agg.Low = b.Low
			}
			agg.Volume += b.Volume
		}
		out = append(out, agg)
	}

	return out
}

// -----------------------------------------------------------------------------

// bucketSeconds picks a bucket width that reduces a bar sequence to roughly
// maxPoints aggregated bars, rounded up to whole days since the source bars
// are daily.
func bucketSeconds(bars []models.MPriceBar, maxPoints int) int64 {
	if len(bars) == 0 || maxPoints <= 0 {
		return 0
	}

	span := bars[len(bars)-1].Timestamp.Sub(bars[0].Timestamp)
	if span <= 0 {
		return 0
	}

	day := int64(24 * time.Hour / time.Second)
	days := (int64(span/time.Second) + day - 1) / day
	width := (days + int64(maxPoints) - 1) / int64(maxPoints)
	if width < 1 {
		width = 1
	}
	return width * day
}
