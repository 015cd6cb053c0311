package models

import "encoding/json"

// MarketStatus classifies the market from the recency of the last daily bar
// of a benchmark series. This is a heuristic, not an exchange calendar
// lookup: a bar dated today means trading happened today, a short gap means
// a weekend or holiday, a long gap means the data is stale.
type MarketStatus int

const (
	// MarketStatusUnknown means the benchmark probe itself failed upstream.
	MarketStatusUnknown MarketStatus = iota
	// MarketStatusNoData means fewer than two bars were available.
	MarketStatusNoData
	MarketStatusOpen
	MarketStatusClosedRecent
	MarketStatusClosedStale
)

// -----------------------------------------------------------------------------

func (m MarketStatus) String() string {
	switch m {
	case MarketStatusOpen:
		return "open"
	case MarketStatusClosedRecent:
		return "closed_recent"
	case MarketStatusClosedStale:
		return "closed_stale"
	case MarketStatusNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------

// MarshalJSON encodes the status as its string form for API payloads.
func (m MarketStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes the string form produced by MarshalJSON; any
// unrecognized value maps to MarketStatusUnknown.
func (m *MarketStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "open":
		*m = MarketStatusOpen
	case "closed_recent":
		*m = MarketStatusClosedRecent
	case "closed_stale":
		*m = MarketStatusClosedStale
	case "no_data":
		*m = MarketStatusNoData
	default:
		*m = MarketStatusUnknown
	}
	return nil
}
