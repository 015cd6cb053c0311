package core

import (
	"time"

	"market-dashboard/src/models"
)

// Volume ratio compares the latest bar's volume against the rolling average
// over this many trailing bars (or the whole series when shorter).
const volumeAverageWindow = 30

// -----------------------------------------------------------------------------

// ComputeSnapshot derives all dashboard metrics from one instrument series.
// It is a pure function of the series and the supplied clock: an empty
// series produces a zero-valued snapshot stamped with now rather than an
// error, so a symbol without data flows through the pipeline like any other.
func ComputeSnapshot(series models.MInstrumentSeries, now time.Time) models.MQuoteSnapshot {
	snap := models.MQuoteSnapshot{
		Symbol:     series.Symbol,
		Name:       series.Name,
		LastUpdate: now,
	}

	bars := series.Bars
	if len(bars) == 0 {
		return snap
	}

	last := bars[len(bars)-1]
	snap.CurrentPrice = last.Close
	snap.LastUpdate = last.Timestamp
	snap.LatestVolume = last.Volume

	// Prior close and change. A single bar has no prior close: the change
	// is defined as zero, not an error.
	snap.PreviousClose = last.Close
	if len(bars) >= 2 {
		snap.PreviousClose = bars[len(bars)-2].Close
	}
	snap.AbsoluteChange = snap.CurrentPrice - snap.PreviousClose
	if snap.PreviousClose != 0 {
		snap.PercentChange = snap.AbsoluteChange / snap.PreviousClose * 100
	}

	// Range over the whole retrieved window, not just the latest day.
	snap.DayHigh = bars[0].High
	snap.DayLow = bars[0].Low
	for _, b := range bars {
		if b.High > snap.DayHigh {
			snap.DayHigh = b.High
		}
		if b.Low < snap.DayLow {
			snap.DayLow = b.Low
		}
	}

	snap.AverageVolume30 = averageVolume(bars, volumeAverageWindow)
	if snap.AverageVolume30 > 0 {
		snap.VolumeRatio = snap.LatestVolume / snap.AverageVolume30
	}

	snap.Volatility = SampleStd(dailyReturns(series.Closes()))
	snap.Normalized = NormalizeForComparison(series)

	return snap
}

// -----------------------------------------------------------------------------

// ComputeIndexSnapshot derives the reduced value/change metrics used for
// benchmark indices. Same zero, one and two+ bar rules as ComputeSnapshot.
func ComputeIndexSnapshot(series models.MInstrumentSeries, now time.Time) models.MIndexSnapshot {
	snap := models.MIndexSnapshot{
		Symbol:     series.Symbol,
		Name:       series.Name,
		LastUpdate: now,
	}

	bars := series.Bars
	if len(bars) == 0 {
		return snap
	}

	last := bars[len(bars)-1]
	snap.Value = last.Close
	snap.LastUpdate = last.Timestamp

	previous := last.Close
	if len(bars) >= 2 {
		previous = bars[len(bars)-2].Close
	}
	snap.Change = snap.Value - previous
	if previous != 0 {
		snap.ChangePercent = snap.Change / previous * 100
	}

	return snap
}

// -----------------------------------------------------------------------------

// averageVolume computes the mean volume of the last min(window, n) bars.
func averageVolume(bars []models.MPriceBar, window int) float64 {
	if len(bars) == 0 {
		return 0
	}

	start := len(bars) - window
	if start < 0 {
		start = 0
	}

	sum := 0.0
	for _, b := range bars[start:] {
		sum += b.Volume
	}
	return sum / float64(len(bars)-start)
}

// -----------------------------------------------------------------------------

// dailyReturns computes close[i]/close[i-1] - 1 for consecutive pairs.
// Pairs with a zero prior close are skipped rather than producing Inf.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}
