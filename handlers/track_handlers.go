// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"spellbee/api/geo"
	"spellbee/api/models"
	"spellbee/api/store"
	"spellbee/api/utils"

	"github.com/gin-gonic/gin"
)

const trackingTimeout = 5 * time.Second

type TrackHandlers struct {
	Sessions store.SessionStore
	Geo      *geo.Client
}

func NewTrackHandlers(sessions store.SessionStore, geoClient *geo.Client) *TrackHandlers {
	return &TrackHandlers{
		Sessions: sessions,
		Geo:      geoClient,
	}
}

// TrackSession handles POST /api/track/session. It creates a row for a
// new session id (generating one if the client did not send any) or
// bumps total_visits on an existing row, and always echoes the
// effective id back so the front-end can store it.
func (h *TrackHandlers) TrackSession(c *gin.Context) {
	var req models.TrackSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = utils.NewSessionID()
	}

	ip := c.ClientIP()
	location := h.Geo.Lookup(c.Request.Context(), ip)

	ctx, cancel := context.WithTimeout(c.Request.Context(), trackingTimeout)
	defer cancel()

	if err := h.Sessions.TouchSession(ctx, sessionID, ip, c.Request.UserAgent(), location); err != nil {
		log.Printf("Session tracking error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"success":   true,
	})
}

// TrackWord handles POST /api/track/word, mapping the action to
// exactly one usage counter on the session row.
func (h *TrackHandlers) TrackWord(c *gin.Context) {
	var req models.TrackWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), trackingTimeout)
	defer cancel()

	if err := h.Sessions.IncrementAction(ctx, req.SessionID, req.Action); err != nil {
		log.Printf("Word tracking error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track word action"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
