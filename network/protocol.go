package network

import (
	"encoding/json"
	"fmt"
)

// Message types on the wire
const (
	TypeWelcome   = "welcome"
	TypeSnapshot  = "snapshot"
	TypeError     = "error"
	TypePressStop = "press_stop"
)

// Envelope is the outbound frame: {"type": ..., "payload": {...}}
// Simulation events use their event name as type
type Envelope struct {
	Type    string `json:"type"`
	Tick    uint64 `json:"tick,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Command is an inbound frame, e.g. {"type":"press_stop","index":2}
type Command struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// WelcomePayload is sent once per connection
type WelcomePayload struct {
	ClientID string `json:"client_id"`
}

// ErrorPayload reports a rejected command back to its sender
type ErrorPayload struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

// Encode marshals an envelope
func Encode(typ string, tick uint64, payload any) ([]byte, error) {
	data, err := json.Marshal(Envelope{Type: typ, Tick: tick, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return data, nil
}

// DecodeCommand parses an inbound frame
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("decode command: %w", err)
	}
	if cmd.Type == "" {
		return cmd, fmt.Errorf("decode command: missing type")
	}
	return cmd, nil
}
