// api/handlers/speech_handlers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"spellbee/api/models"
	"spellbee/api/openai"
	"spellbee/api/store"

	"github.com/gin-gonic/gin"
)

// upstreamTimeout bounds every call to the AI provider. When it
// expires the outbound request is cancelled and the client gets a 504
// instead of a hung connection.
const upstreamTimeout = 9 * time.Second

type SpeechHandlers struct {
	AI       *openai.Client // nil when no API key is configured
	Sessions store.SessionStore

	// Timeout overrides upstreamTimeout; tests shrink it so the 504
	// path does not take nine seconds to exercise.
	Timeout time.Duration
}

func NewSpeechHandlers(ai *openai.Client, sessions store.SessionStore) *SpeechHandlers {
	return &SpeechHandlers{
		AI:       ai,
		Sessions: sessions,
		Timeout:  upstreamTimeout,
	}
}

// Speak proxies POST /api/speak to the chat-completion API and returns
// the generated text.
func (h *SpeechHandlers) Speak(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if h.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	text, err := h.AI.Complete(ctx, req.Prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timeout"})
			return
		}
		log.Printf("Speak API Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// TTS proxies POST /api/tts to the speech-synthesis API and streams
// the MP3 audio back to the client.
func (h *SpeechHandlers) TTS(c *gin.Context) {
	var req models.TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	req.Normalize()

	if h.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	audio, err := h.AI.Synthesize(ctx, models.CleanText(req.Text), req.Voice, *req.Speed)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timeout"})
			return
		}
		log.Printf("TTS API Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Speech generation failed"})
		return
	}

	// Usage tracking is fire-and-forget: a storage failure must never
	// fail the audio response the caller is waiting on.
	if req.SessionID != "" {
		if err := h.Sessions.IncrementAction(c.Request.Context(), req.SessionID, models.ActionAISpeech); err != nil {
			log.Printf("Failed to track AI speech usage for session %s: %v", req.SessionID, err)
		}
	}

	c.Header("Content-Length", strconv.Itoa(len(audio)))
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
