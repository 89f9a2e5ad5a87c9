// api/models/requests.go
package models

import (
	"strings"
	"unicode/utf8"
)

// maxInputLength bounds text and prompts in characters, not bytes, so
// non-ASCII input is not penalized.
const maxInputLength = 200

// Speed bounds accepted by the speech API; anything outside is clamped,
// never rejected.
const (
	MinSpeechSpeed     = 0.25
	MaxSpeechSpeed     = 4.0
	DefaultSpeechSpeed = 0.9
	DefaultVoice       = "nova"
)

// TTSRequest is the body of POST /api/tts.
type TTSRequest struct {
	Text      string   `json:"text"`
	Voice     string   `json:"voice"`
	Speed     *float64 `json:"speed"`
	SessionID string   `json:"sessionId"`
}

// Validate returns the client-facing error message for a malformed
// request, or "" when the request is acceptable.
func (r *TTSRequest) Validate() string {
	if strings.TrimSpace(r.Text) == "" {
		return "Text is required"
	}
	if utf8.RuneCountInString(r.Text) > maxInputLength {
		return "Text too long (max 200 characters)"
	}
	return ""
}

// Normalize fills defaults and clamps speed into its accepted range.
// Call only after Validate.
func (r *TTSRequest) Normalize() {
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.Speed == nil {
		speed := DefaultSpeechSpeed
		r.Speed = &speed
	}
	*r.Speed = clampSpeed(*r.Speed)
}

func clampSpeed(speed float64) float64 {
	if speed < MinSpeechSpeed {
		return MinSpeechSpeed
	}
	if speed > MaxSpeechSpeed {
		return MaxSpeechSpeed
	}
	return speed
}

// CleanText strips markup-significant characters from user text and
// appends a sentence terminator so the voice does not trail off. This
// is a crude guard against prompt injection, not a sanitizer.
func CleanText(text string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(text))
	return cleaned + ". "
}

// ChatRequest is the body of POST /api/speak.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

func (r *ChatRequest) Validate() string {
	if strings.TrimSpace(r.Prompt) == "" {
		return "Prompt is required"
	}
	if utf8.RuneCountInString(r.Prompt) > maxInputLength {
		return "Prompt too long (max 200 characters)"
	}
	return ""
}

// TrackSessionRequest is the body of POST /api/track/session. SessionID
// is optional; the server generates one when absent.
type TrackSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// TrackWordRequest is the body of POST /api/track/word.
type TrackWordRequest struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"`
}

func (r *TrackWordRequest) Validate() string {
	if r.SessionID == "" || r.Action == "" {
		return "Session ID and action are required"
	}
	if !IsValidAction(r.Action) {
		return "Invalid action"
	}
	return ""
}
