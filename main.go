// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"spellbee/api/config"
	"spellbee/api/database"
	"spellbee/api/geo"
	"spellbee/api/handlers"
	"spellbee/api/middleware"
	"spellbee/api/openai"
	"spellbee/api/store"
)

const (
	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute

	staticDir = "public"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Load()

	// --- Initialize the session store ---
	sessionStore, cleanup, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer cleanup()

	pruneOldSessions(sessionStore, cfg.RetentionDays)

	// --- Upstream AI client ---
	var aiClient *openai.Client
	if cfg.OpenAIAPIKey != "" {
		aiClient = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Println("OPENAI_API_KEY not set; /api/speak and /api/tts will report not configured")
	}

	// --- Initialize Handlers ---
	speechHandlers := handlers.NewSpeechHandlers(aiClient, sessionStore)
	trackHandlers := handlers.NewTrackHandlers(sessionStore, geo.NewClient())
	adminHandlers := handlers.NewAdminHandlers(sessionStore, cfg.AdminPassword)

	limiter := middleware.NewRateLimiter(rateLimitRequests, rateLimitWindow)
	r := newRouter(cfg, speechHandlers, trackHandlers, adminHandlers, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// newSessionStore picks the storage backend from configuration. The
// "none" driver keeps the tracking endpoints alive without persistence
// for deployments that have no disk.
func newSessionStore(cfg config.Config) (store.SessionStore, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s, err := store.NewSQLSessionStore(dbClient.DB, store.BindDollar)
		if err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		return s, dbClient.Close, nil

	case config.DriverNone:
		log.Println("Session persistence disabled; tracking calls will be acknowledged only")
		return store.NewNoopSessionStore(), func() {}, nil

	default:
		dbClient, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		s, err := store.NewSQLSessionStore(dbClient.DB, store.BindQuestion)
		if err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		return s, dbClient.Close, nil
	}
}

// pruneOldSessions applies the retention bound once at startup; there
// are no background tasks, so this is the only place rows are deleted.
func pruneOldSessions(s store.SessionStore, retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	pruned, err := s.PruneBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Failed to prune old sessions: %v", err)
		return
	}
	if pruned > 0 {
		log.Printf("Pruned %d sessions older than %d days", pruned, retentionDays)
	}
}

