// Package events carries entity change notifications from the API to
// dashboard clients, either in-process or across instances through Redis.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"supportdesk/models"
)

// Bus fans change envelopes out to every current subscriber.
type Bus interface {
	Publish(ctx context.Context, env models.EventEnvelope) error
	// Subscribe returns a channel of envelopes and a function that ends the
	// subscription and closes the channel.
	Subscribe(ctx context.Context) (<-chan models.EventEnvelope, func(), error)
	Close() error
}

// NewEnvelope wraps payload for publishing.
func NewEnvelope(eventType, entityID string, payload any) (models.EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.EventEnvelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return models.EventEnvelope{
		EventID:   uuid.New().String(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}, nil
}
