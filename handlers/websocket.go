package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"supportdesk/models"
)

const wsWriteTimeout = 10 * time.Second

// serveWS streams change events to a dashboard client. Clients only listen;
// anything they send is read and discarded so close frames are noticed.
func (a *API) serveWS(c *gin.Context) {
	if a.bus == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "Change feed is not available"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return a.originAllowed(r.Header.Get("Origin"))
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	feed, unsubscribe, err := a.bus.Subscribe(ctx)
	if err != nil {
		log.Printf("Failed to subscribe to change feed: %v", err)
		_ = conn.WriteJSON(models.WSResponse{Type: "error", Text: "Change feed is not available"})
		return
	}
	defer unsubscribe()

	clientID := uuid.New().String()
	if err := conn.WriteJSON(models.WSResponse{Type: "connected", ClientID: clientID}); err != nil {
		log.Printf("Failed to send connected message: %v", err)
		return
	}

	// Forward events from the bus to the WebSocket. This goroutine is the
	// only writer after the connected message.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-feed:
				if !ok {
					cancel()
					_ = conn.Close()
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(models.WSResponse{Type: "event", Event: &env}); err != nil {
					log.Printf("Failed to write to WebSocket: %v", err)
					cancel()
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket closed unexpectedly: %v", err)
			}
			return
		}
	}
}
