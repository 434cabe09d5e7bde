package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeClick     MessageType = "click"
	MessageTypeMove      MessageType = "move"
	MessageTypeReset     MessageType = "reset"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewErrorMessage builds an error message whose payload is valid JSON.
func NewErrorMessage(msg string) Message {
	payload, _ := json.Marshal(ErrorPayload{Error: msg})
	return Message{
		Type:    MessageTypeError,
		Payload: payload,
	}
}
