package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"supportdesk/models"
)

func receive(t *testing.T, ch <-chan models.EventEnvelope) models.EventEnvelope {
	t.Helper()
	select {
	case env, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before an event arrived")
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return models.EventEnvelope{}
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(models.EventConversationCreated, "conv-9", map[string]string{"customerName": "Ana"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if env.EventID == "" || env.Timestamp.IsZero() {
		t.Errorf("missing id or timestamp: %+v", env)
	}
	var payload map[string]string
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload["customerName"] != "Ana" {
		t.Errorf("payload: got %s (%v)", env.Payload, err)
	}

	if _, err := NewEnvelope("x", "y", make(chan int)); err == nil {
		t.Error("expected marshal error for unsupported payload")
	}
}

func TestHubFansOut(t *testing.T) {
	h := NewHub()
	ctx := context.Background()
	a, unsubA, _ := h.Subscribe(ctx)
	b, unsubB, _ := h.Subscribe(ctx)
	defer unsubA()
	defer unsubB()

	env, _ := NewEnvelope(models.EventSessionCreated, "s1", struct{}{})
	if err := h.Publish(ctx, env); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := receive(t, a); got.EventID != env.EventID {
		t.Errorf("subscriber a: got %s, want %s", got.EventID, env.EventID)
	}
	if got := receive(t, b); got.EventID != env.EventID {
		t.Errorf("subscriber b: got %s, want %s", got.EventID, env.EventID)
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch, unsub, _ := h.Subscribe(context.Background())
	unsub()
	unsub()
	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	if n := h.subscribers(); n != 0 {
		t.Errorf("subscribers: got %d, want 0", n)
	}
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ctx := context.Background()
	ch, unsub, _ := h.Subscribe(ctx)
	defer unsub()

	env, _ := NewEnvelope("x", "1", nil)
	for i := 0; i < subscriberBuffer+10; i++ {
		if err := h.Publish(ctx, env); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered: got %d, want %d", len(ch), subscriberBuffer)
	}
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	ch, unsub, _ := h.Subscribe(context.Background())
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("expected closed channel after Close")
	}
	unsub()

	late, _, _ := h.Subscribe(context.Background())
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
}

func TestRedisBusRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb, err := DialRedis(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	bus := NewRedisBus(rdb, "")
	defer bus.Close()

	ch, unsub, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	env, _ := NewEnvelope(models.EventConversationUpdated, "conv-1", map[string]int{"duration": 10})
	if err := bus.Publish(ctx, env); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got := receive(t, ch)
	if got.EventID != env.EventID || got.Type != models.EventConversationUpdated || got.EntityID != "conv-1" {
		t.Errorf("envelope: got %+v", got)
	}
	if string(got.Payload) != `{"duration":10}` {
		t.Errorf("payload: got %s", got.Payload)
	}
}

func TestRedisBusUnsubscribeClosesChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := NewRedisBus(rdb, "test:events")
	defer bus.Close()

	ch, unsub, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	unsub()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestDialRedisErrors(t *testing.T) {
	if _, err := DialRedis(context.Background(), "not a url"); err == nil {
		t.Error("expected parse error")
	}
}
