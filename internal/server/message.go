package server

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies a WebSocket message
type MessageType string

// Sent by clients.
const (
	MessageTypeEvent           MessageType = "event"        // data is a replay event
	MessageTypeSnapshotRequest MessageType = "get_snapshot" // data is ignored
)

// Sent by the server.
const (
	MessageTypeSnapshot MessageType = "snapshot" // game snapshot, or null before start_game
	MessageTypeUpdate   MessageType = "update"   // tracker.Update after every applied event
	MessageTypeError    MessageType = "error"    // ErrorData
)

// Message is the envelope for everything sent over the socket
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage encodes data into an envelope stamped with the current time.
func NewMessage(typ MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", typ, err)
	}
	return &Message{Type: typ, Data: raw, Timestamp: time.Now()}, nil
}

// ErrorData is the payload of an error message and of HTTP error responses
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
