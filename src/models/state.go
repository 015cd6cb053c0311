package models

// -----------------------------------------------------------------------------
// Dashboard state pushed to connected clients and served over the REST API.
// -----------------------------------------------------------------------------

type MDashboardState struct {
	Type              string                     `json:"type"` // "INITIAL" or "UPDATE"
	Quotes            map[string]MQuoteSnapshot  `json:"quotes"`
	Indices           map[string]MIndexSnapshot  `json:"indices"`
	MarketStatus      MarketStatus               `json:"market_status"`
	Errors            []MFetchError              `json:"errors,omitempty"`
	Timestamp         int64                      `json:"timestamp"`
	ProcessingMetrics MProcessingMetrics         `json:"processing_metrics"`
}

// -----------------------------------------------------------------------------

// Error kinds attached to MFetchError. Per-symbol failures are collected
// alongside the successful results, never interleaved with them.
const (
	ErrKindNoData           = "no_data"
	ErrKindProviderFailure  = "provider_failure"
	ErrKindDegradedMetadata = "degraded_metadata"
)

// MFetchError annotates one symbol's failure so the host can display it
// without interrupting rendering of the valid results.
type MFetchError struct {
	Symbol  string `json:"symbol"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// -----------------------------------------------------------------------------

// MSymbolInfo is the best-effort metadata a provider resolves for a symbol.
type MSymbolInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// -----------------------------------------------------------------------------

// MProcessingMetrics reports how a refresh cycle went.
type MProcessingMetrics struct {
	SnapshotTimeSeconds float64 `json:"snapshot_time_seconds"`
	ValidSymbols        int     `json:"valid_symbols"`
	FailedSymbols       int     `json:"failed_symbols"`
}
