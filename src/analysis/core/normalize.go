package core

import "market-dashboard/src/models"

// -----------------------------------------------------------------------------

// NormalizeForComparison rebases a close series to percent change from its
// first observation, so instruments of different price scales share one
// comparison chart. Output ordering matches input ordering and the first
// point is always 0. A series whose first close is zero cannot be rebased
// and is excluded (nil) instead of producing infinities.
func NormalizeForComparison(series models.MInstrumentSeries) []models.MNormalizedPoint {
	bars := series.Bars
	if len(bars) == 0 {
		return nil
	}

	base := bars[0].Close
	if base == 0 {
		return nil
	}

	points := make([]models.MNormalizedPoint, len(bars))
	for i, b := range bars {
		points[i] = models.MNormalizedPoint{
			Timestamp:     b.Timestamp,
			PercentChange: (b.Close/base - 1) * 100,
		}
	}
	return points
}
