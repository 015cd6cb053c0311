package models

import "time"

// MNormalizedPoint is one point of a comparison series: percent change of
// the close from the first observation in the retrieved window.
type MNormalizedPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	PercentChange float64   `json:"percent_change"`
}

// -----------------------------------------------------------------------------

// MQuoteSnapshot is the full set of derived metrics for one instrument,
// recomputed from scratch on every refresh. It carries no identity beyond
// the symbol; a new fetch replaces the previous snapshot entirely.
type MQuoteSnapshot struct {
	Symbol          string             `json:"symbol"`
	Name            string             `json:"name,omitempty"`
	CurrentPrice    float64            `json:"current_price"`
	PreviousClose   float64            `json:"previous_close"`
	AbsoluteChange  float64            `json:"absolute_change"`
	PercentChange   float64            `json:"percent_change"`
	DayHigh         float64            `json:"day_high"`
	DayLow          float64            `json:"day_low"`
	AverageVolume30 float64            `json:"average_volume_30"`
	LatestVolume    float64            `json:"latest_volume"`
	VolumeRatio     float64            `json:"volume_ratio"`
	Volatility      float64            `json:"volatility"`
	Normalized      []MNormalizedPoint `json:"normalized,omitempty"`
	LastUpdate      time.Time          `json:"last_update"`
}

// -----------------------------------------------------------------------------

// MIndexSnapshot is the reduced snapshot used for benchmark indices, which
// have no volume or OHLC fields of interest on the dashboard.
type MIndexSnapshot struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Value         float64   `json:"value"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	LastUpdate    time.Time `json:"last_update"`
}
