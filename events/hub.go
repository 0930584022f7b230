package events

import (
	"context"
	"log"
	"sync"

	"supportdesk/models"
)

const subscriberBuffer = 32

// Hub is the in-process Bus used when no Redis is configured.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan models.EventEnvelope]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan models.EventEnvelope]struct{})}
}

// Publish never blocks. Subscribers whose buffer is full miss the event.
func (h *Hub) Publish(_ context.Context, env models.EventEnvelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- env:
		default:
			log.Printf("Dropping %s event for slow subscriber", env.Type)
		}
	}
	return nil
}

func (h *Hub) Subscribe(_ context.Context) (<-chan models.EventEnvelope, func(), error) {
	ch := make(chan models.EventEnvelope, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}, nil
	}
	h.subs[ch] = struct{}{}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
	return ch, unsubscribe, nil
}

// Close ends every subscription.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.closed = true
	return nil
}

func (h *Hub) subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
