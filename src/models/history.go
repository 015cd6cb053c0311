package models

// -----------------------------------------------------------------------------
// MHistoryPoint is one condensed observation kept in the in-memory history
// ring per symbol: the handful of metrics a sparkline needs, not the full
// snapshot.
// -----------------------------------------------------------------------------

type MHistoryPoint struct {
	Timestamp     int64   `json:"timestamp"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	VolumeRatio   float64 `json:"volume_ratio"`
}

// Feature layout of the history ring's packed rows.
const (
	HP_IDX_TIMESTAMP = 0
	HP_IDX_PRICE     = 1
	HP_IDX_CHG_PCT   = 2
	HP_IDX_VOL_RATIO = 3

	HP_NUM_FEATURES = 4
)
