package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"supportdesk/assist"
	"supportdesk/events"
	"supportdesk/models"
	"supportdesk/speech"
	"supportdesk/storage"
)

// Transcriber turns raw audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (speech.Transcript, error)
}

// TokenIssuer hands out short-lived streaming transcription credentials.
type TokenIssuer interface {
	Issue(ctx context.Context) (models.TranscriptionToken, error)
}

type Options struct {
	Store          storage.Store
	Decider        assist.Decider
	Transcriber    Transcriber
	Tokens         TokenIssuer
	Bus            events.Bus
	AllowedOrigins []string
	StaticDir      string
}

// API holds the dependencies shared by every handler.
type API struct {
	store          storage.Store
	decider        assist.Decider
	transcriber    Transcriber
	tokens         TokenIssuer
	bus            events.Bus
	allowedOrigins map[string]bool
	staticDir      string
	wait           func(ctx context.Context, d time.Duration) error
}

func New(opts Options) *API {
	registerJSONFieldNames()

	origins := make(map[string]bool)
	for _, o := range opts.AllowedOrigins {
		origins[o] = true
	}
	return &API{
		store:          opts.Store,
		decider:        opts.Decider,
		transcriber:    opts.Transcriber,
		tokens:         opts.Tokens,
		bus:            opts.Bus,
		allowedOrigins: origins,
		staticDir:      opts.StaticDir,
		wait:           sleepContext,
	}
}

// Router builds the gin engine with middleware and every route mounted.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(recoverJSON), requestLogger(), a.cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", a.serveWS)
	a.Register(r.Group("/api"))

	r.NoRoute(a.notFoundOrStatic)
	return r
}

// Register mounts the JSON API on g.
func (a *API) Register(g *gin.RouterGroup) {
	g.GET("/conversations", a.listConversations)
	g.POST("/conversations", a.createConversation)
	g.GET("/conversations/:id", a.getConversation)
	g.PATCH("/conversations/:id", a.patchConversation)
	g.GET("/conversations/:id/sessions", a.listSessions)

	g.GET("/customers", a.listCustomers)
	g.POST("/customers", a.createCustomer)
	g.GET("/customers/:id", a.getCustomer)

	g.POST("/process-speech", a.processSpeech)
	g.POST("/process-audio", a.processAudio)
	g.POST("/transcription-token", a.transcriptionToken)
	g.GET("/analytics", a.analytics)
}

// publish is best effort: a failed notification never fails the request.
func (a *API) publish(ctx context.Context, eventType, entityID string, payload any) {
	if a.bus == nil {
		return
	}
	env, err := events.NewEnvelope(eventType, entityID, payload)
	if err != nil {
		log.Printf("Failed to build %s event: %v", eventType, err)
		return
	}
	if err := a.bus.Publish(ctx, env); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

func (a *API) originAllowed(origin string) bool {
	if len(a.allowedOrigins) == 0 || origin == "" {
		return true
	}
	return a.allowedOrigins[origin]
}

func (a *API) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case len(a.allowedOrigins) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && a.allowedOrigins[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs API calls as "METHOD path status in Nms".
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		p := c.Request.URL.Path
		c.Next()
		if strings.HasPrefix(p, "/api") {
			log.Printf("%s %s %d in %dms", c.Request.Method, p, c.Writer.Status(), time.Since(start).Milliseconds())
		}
	}
}

func recoverJSON(c *gin.Context, recovered any) {
	log.Printf("Recovered from panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Internal server error"})
}

// notFoundOrStatic serves the built dashboard for non-API paths when a
// static directory is configured, falling back to index.html for client
// side routes.
func (a *API) notFoundOrStatic(c *gin.Context) {
	p := c.Request.URL.Path
	if a.staticDir == "" || strings.HasPrefix(p, "/api/") || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Not found"})
		return
	}

	name := filepath.Join(a.staticDir, filepath.FromSlash(path.Clean("/"+p)))
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		c.File(name)
		return
	}
	c.File(filepath.Join(a.staticDir, "index.html"))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
