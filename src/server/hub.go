package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main hub loop. It alone owns the clients map.
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientCount.Store(0)
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.clientCount.Store(int64(len(s.clients)))

			// New clients get the full current state immediately.
			s.stateMutex.RLock()
			state := s.latestState
			s.stateMutex.RUnlock()
			if state != nil {
				client.send <- state
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.clientCount.Store(int64(len(s.clients)))
			}

		case state := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestState = state
			s.stateMutex.Unlock()

			for client := range s.clients {
				select {
				case client.send <- state:
				default:
					// Slow consumer: drop it rather than stall the hub.
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.clientCount.Store(int64(len(s.clients)))
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Warning("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel so the hub loop never blocks on one client.
		send: make(chan *models.MDashboardState, 16),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage processes a subscribe command and answers with a
// filtered snapshot of the current state.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Warning("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}
	if cmd.Command != "subscribe" {
		return
	}

	s.stateMutex.RLock()
	response := s.filteredResponse(cmd.Symbols)
	s.stateMutex.RUnlock()

	select {
	case client.send <- response:
	default:
		// Client buffer full; the hub loop prunes it on the next broadcast.
	}
}

// -----------------------------------------------------------------------------

// filteredResponse projects the latest state onto the requested symbols.
// An empty request means everything. Caller holds stateMutex.
func (s *DashboardServer) filteredResponse(symbols []string) *models.MDashboardState {
	if len(symbols) == 0 {
		out := *s.latestState
		out.Type = "INITIAL"
		return &out
	}

	wanted := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		wanted[sym] = true
	}

	quotes := make(map[string]models.MQuoteSnapshot)
	for sym, snap := range s.latestState.Quotes {
		if wanted[sym] {
			quotes[sym] = snap
		}
	}
	indices := make(map[string]models.MIndexSnapshot)
	for sym, snap := range s.latestState.Indices {
		if wanted[sym] {
			indices[sym] = snap
		}
	}
	var errs []models.MFetchError
	for _, e := range s.latestState.Errors {
		if wanted[e.Symbol] {
			errs = append(errs, e)
		}
	}

	return &models.MDashboardState{
		Type:              "INITIAL",
		Quotes:            quotes,
		Indices:           indices,
		MarketStatus:      s.latestState.MarketStatus,
		Errors:            errs,
		Timestamp:         s.latestState.Timestamp,
		ProcessingMetrics: s.latestState.ProcessingMetrics,
	}
}
