package models

import "time"

// MPriceBar represents one OHLCV observation for a trading day.
type MPriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// -----------------------------------------------------------------------------

// MInstrumentSeries holds the retrieved bar history for one instrument.
// Bars are ascending by timestamp with no duplicates; the series may be
// empty when the provider had no data for the requested window.
type MInstrumentSeries struct {
	Symbol string      `json:"symbol"`
	Name   string      `json:"name,omitempty"`
	Bars   []MPriceBar `json:"bars"`
}

// -----------------------------------------------------------------------------

// IsEmpty reports whether the series carries no bars.
func (s MInstrumentSeries) IsEmpty() bool {
	return len(s.Bars) == 0
}

// -----------------------------------------------------------------------------

// LastBar returns the most recent bar. ok is false for an empty series.
func (s MInstrumentSeries) LastBar() (MPriceBar, bool) {
	if len(s.Bars) == 0 {
		return MPriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// -----------------------------------------------------------------------------

// Closes extracts the close column in bar order.
func (s MInstrumentSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
