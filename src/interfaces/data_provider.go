package interfaces

import (
	"context"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// IQuoteProvider is the market-data retrieval boundary. Implementations must
// return an ordered, deduplicated bar sequence per symbol and period, and
// must distinguish "unavailable" (error) from "empty but valid" (no bars).
// -----------------------------------------------------------------------------

type IQuoteProvider interface {

	// Name returns the unique identifier of the provider
	Name() string

	// -----------------------------------------------------------------------------

	// FetchSeries retrieves the bar history for one symbol over a period
	// string such as "1mo" or "1y". An empty series with a nil error means
	// the symbol exists but has no data in the window.
	FetchSeries(ctx context.Context, symbol, period string) (models.MInstrumentSeries, error)

	// -----------------------------------------------------------------------------

	// LookupSymbol resolves best-effort display metadata for a symbol.
	// Callers fall back to the raw symbol string when this fails.
	LookupSymbol(ctx context.Context, symbol string) (models.MSymbolInfo, error)
}
