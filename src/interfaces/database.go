package interfaces

import (
	"time"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveBarsBulk upserts a batch of daily bars for one symbol.
	SaveBarsBulk(symbol string, bars []models.MPriceBar) error

	// -----------------------------------------------------------------------------

	// LoadSeries returns the ascending bar history for a symbol from a
	// window start onward. A symbol without rows yields an empty series,
	// not an error.
	LoadSeries(symbol string, from time.Time) (models.MInstrumentSeries, error)

	// -----------------------------------------------------------------------------

	// SaveSymbolInfo registers display metadata for a symbol.
	SaveSymbolInfo(info models.MSymbolInfo) error

	// GetSymbolInfo resolves display metadata; returns an error when the
	// symbol was never registered.
	GetSymbolInfo(symbol string) (models.MSymbolInfo, error)

	// -----------------------------------------------------------------------------

	// SaveSnapshots persists the derived metrics of one refresh cycle.
	SaveSnapshots(snaps []models.MQuoteSnapshot) error

	// -----------------------------------------------------------------------------

	// CleanupOldData removes bars and snapshots older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
