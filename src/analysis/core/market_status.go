package core

import (
	"time"

	"market-dashboard/src/models"
)

// Gaps of up to this many calendar days between the last bar and today are
// treated as an ordinary weekend or holiday closure; anything longer means
// the benchmark data has gone stale.
const recentCloseDays = 3

// -----------------------------------------------------------------------------

// ClassifyMarketStatus derives a market open/closed heuristic from the
// recency of the benchmark series' last daily bar. A bar dated today means
// the market traded today. This is intentionally approximate; it is not an
// exchange trading-calendar lookup and does not account for timezones or
// half days. Upstream fetch failures are reported by the caller as
// MarketStatusUnknown since they cannot be derived from a series.
func ClassifyMarketStatus(series models.MInstrumentSeries, now time.Time) models.MarketStatus {
	if len(series.Bars) < 2 {
		return models.MarketStatusNoData
	}

	last := series.Bars[len(series.Bars)-1]
	lastDate := truncateToDay(last.Timestamp)
	today := truncateToDay(now)

	gapDays := int(today.Sub(lastDate).Hours() / 24)
	switch {
	case gapDays <= 0:
		return models.MarketStatusOpen
	case gapDays <= recentCloseDays:
		return models.MarketStatusClosedRecent
	default:
		return models.MarketStatusClosedStale
	}
}

// -----------------------------------------------------------------------------

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
