package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"supportdesk/models"
	"supportdesk/storage"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readWS(t *testing.T, conn *websocket.Conn) models.WSResponse {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.WSResponse
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketStreamsChanges(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := readWS(t, conn)
	if hello.Type != "connected" || hello.ClientID == "" {
		t.Fatalf("first message: got %+v", hello)
	}

	resp, err := http.Post(srv.URL+"/api/conversations", "application/json", bytes.NewReader([]byte(`{"customerName":"Ana"}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created models.Conversation
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	msg := readWS(t, conn)
	if msg.Type != "event" || msg.Event == nil {
		t.Fatalf("event message: got %+v", msg)
	}
	if msg.Event.Type != models.EventConversationCreated || msg.Event.EntityID != created.ID {
		t.Errorf("event: got %+v, want created %s", msg.Event, created.ID)
	}
	var payload models.Conversation
	if err := json.Unmarshal(msg.Event.Payload, &payload); err != nil || payload.CustomerName != "Ana" {
		t.Errorf("payload: got %s (%v)", msg.Event.Payload, err)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.AllowedOrigins = []string{"http://dash.test"} })
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	if err == nil {
		t.Fatal("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %v, want 403", resp)
	}

	header.Set("Origin", "http://dash.test")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestWebSocketWithoutBus(t *testing.T) {
	api := New(Options{Store: storage.NewMemStore()})
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestWebSocketClosesWhenBusCloses(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readWS(t, conn)

	env.hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to close after the bus closed")
	}
}
