package models

import (
	"encoding/json"
	"time"
)

const (
	EventConversationCreated = "conversation.created"
	EventConversationUpdated = "conversation.updated"
	EventSessionCreated      = "session.created"
	EventCustomerCreated     = "customer.created"
)

// EventEnvelope wraps every change published on the events bus.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	EntityID  string          `json:"entity_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type WSResponse struct {
	Type     string         `json:"type"`
	ClientID string         `json:"client_id,omitempty"`
	Event    *EventEnvelope `json:"event,omitempty"`
	Text     string         `json:"text,omitempty"`
}
