// serve.go implements "supportdesk serve", the HTTP API server.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"supportdesk/assist"
	"supportdesk/config"
	"supportdesk/events"
	"supportdesk/handlers"
	"supportdesk/speech"
	"supportdesk/storage"
)

const shutdownTimeout = 10 * time.Second

var serveFlags struct {
	port      string
	redisURL  string
	staticDir string
	noSeed    bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Start the HTTP server. Settings come from defaults, the --config file,
a .env file and the environment, with flags given here taking precedence.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "Port to listen on")
	serveCmd.Flags().StringVar(&serveFlags.redisURL, "redis-url", "", "Redis URL for the change feed (in-process when empty)")
	serveCmd.Flags().StringVar(&serveFlags.staticDir, "static", "", "Directory of built dashboard assets to serve")
	serveCmd.Flags().BoolVar(&serveFlags.noSeed, "no-seed", false, "Start with an empty store")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, err := newBus(ctx, cfg)
	if err != nil {
		return err
	}
	defer bus.Close()

	opts, err := apiOptions(cfg)
	if err != nil {
		return err
	}
	opts.Bus = bus

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handlers.New(opts).Router(),
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Support desk API listening on %s", cfg.Addr())
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// loadServeConfig resolves the configuration and applies any flags the user
// set explicitly on top of it.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = serveFlags.port
	}
	if flags.Changed("redis-url") {
		cfg.RedisURL = serveFlags.redisURL
	}
	if flags.Changed("static") {
		cfg.StaticDir = serveFlags.staticDir
	}
	if flags.Changed("no-seed") {
		cfg.SeedDemoData = !serveFlags.noSeed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apiOptions builds every handler dependency except the bus. Transcription
// stays disabled when no AssemblyAI key is configured.
func apiOptions(cfg *config.Config) (handlers.Options, error) {
	var storeOpts []storage.Option
	if !cfg.SeedDemoData {
		storeOpts = append(storeOpts, storage.WithoutSeed())
	}

	opts := handlers.Options{
		Store:          storage.NewMemStore(storeOpts...),
		Decider:        assist.NewCanned(cfg.RandomSeed),
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	}

	ai := cfg.AssemblyAI
	if ai.APIKey == "" {
		log.Println("ASSEMBLYAI_API_KEY not set, transcription endpoints disabled")
		return opts, nil
	}
	transcriber, err := speech.NewTranscriber(ai.APIKey, ai.BaseURL)
	if err != nil {
		return handlers.Options{}, fmt.Errorf("failed to create transcriber: %w", err)
	}
	opts.Transcriber = transcriber
	opts.Tokens = speech.NewTokenIssuer(ai.APIKey, ai.TokenURL, ai.StreamingURL, time.Duration(ai.TokenTTLSecs)*time.Second)
	return opts, nil
}

func newBus(ctx context.Context, cfg *config.Config) (events.Bus, error) {
	if cfg.RedisURL == "" {
		return events.NewHub(), nil
	}
	rdb, err := events.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to Redis")
	return events.NewRedisBus(rdb, cfg.RedisChannel), nil
}
