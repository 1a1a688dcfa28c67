package websocket

import (
	"encoding/json"
	"log/slog"
)

// Wire protocol for server-originated pushes

// Event types carried in the envelope's "type" field.
const (
	EventNewMessage   = "new_message"   // a message arrived for the connected user
	EventMessageSent  = "message_sent"  // echo to the sender, UI confirmation
	EventNotification = "notification"  // a notification was created for the user
)

// Envelope wraps every payload pushed over a connection. The body is the
// assembled read-model object for the event, not the raw row.
type Envelope struct {
	Type    string      `json:"type"`
	Message interface{} `json:"message"`
}

func NewEnvelope(eventType string, body interface{}) *Envelope {
	return &Envelope{
		Type:    eventType,
		Message: body,
	}
}

// ToJSON: marshal Envelope struct to JSON
func (e *Envelope) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal envelope to JSON", "error", err, "type", e.Type)
		return nil, err
	}
	return data, nil
}
