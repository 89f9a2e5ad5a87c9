// api/router.go
package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"spellbee/api/config"
	"spellbee/api/handlers"
	"spellbee/api/middleware"
)

// newRouter assembles the full HTTP surface: middleware, the
// rate-limited /api group, method-not-allowed handling, and the SPA
// static fallback. main wires it with real dependencies; tests with
// fakes.
func newRouter(cfg config.Config, speech *handlers.SpeechHandlers, track *handlers.TrackHandlers, admin *handlers.AdminHandlers, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigin))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(serveStatic)

	api := r.Group("/api")
	api.Use(limiter.Middleware())
	{
		api.GET("/health", handlers.HealthCheck(cfg.OpenAIAPIKey != ""))
		api.POST("/speak", speech.Speak)
		api.POST("/tts", speech.TTS)
		api.POST("/track/session", track.TrackSession)
		api.POST("/track/word", track.TrackWord)
		api.GET("/admin/export", admin.ExportSessions)
	}

	return r
}

// serveStatic is the SPA fallback: unmatched API paths get a JSON 404,
// everything else is served from the public directory with index.html
// as the catch-all.
func serveStatic(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/api" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	candidate := filepath.Join(staticDir, filepath.Clean("/"+path))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		c.File(candidate)
		return
	}

	c.File(filepath.Join(staticDir, "index.html"))
}
