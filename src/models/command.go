package models

// MSubscribeCommand is the only message clients send over the websocket:
// a request for an immediate, optionally filtered, state snapshot.
type MSubscribeCommand struct {
	Command string   `json:"command"`
	Symbols []string `json:"symbols,omitempty"`
}
