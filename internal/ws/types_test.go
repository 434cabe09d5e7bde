package ws

import (
	"encoding/json"
	"testing"
)

func TestNewErrorMessagePayloadIsJSON(t *testing.T) {
	msg := NewErrorMessage(`bad "input"`)
	if msg.Type != MessageTypeError {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeError)
	}

	var payload ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Error != `bad "input"` {
		t.Fatalf("error = %q", payload.Error)
	}
}
