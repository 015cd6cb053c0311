package interfaces

import "market-dashboard/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the interface for sharing dashboard state with
// connected clients (REST + push).
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// Broadcast pushes a refreshed state to all connected listeners.
	Broadcast(state *models.MDashboardState)

	// -----------------------------------------------------------------------------

	// UpdateState replaces the internal state without broadcasting.
	UpdateState(state *models.MDashboardState)

	// -----------------------------------------------------------------------------

	// Start the server
	Start() error

	// -----------------------------------------------------------------------------

	// Stop the server gracefully
	Stop() error
}
