// api/models/session.go
package models

import "time"

// Session is one tracked visitor. A row is created the first time a
// session id is seen and mutated on every subsequent tracking call;
// rows are never deleted except by retention pruning.
type Session struct {
	SessionID         string    `json:"sessionId"`
	IPAddress         string    `json:"ipAddress"`
	Country           string    `json:"country"`
	Region            string    `json:"region"`
	City              string    `json:"city"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	UserAgent         string    `json:"userAgent"`
	FirstVisit        time.Time `json:"firstVisit"`
	LastActivity      time.Time `json:"lastActivity"`
	TotalVisits       int64     `json:"totalVisits"`
	WordsPracticed    int64     `json:"wordsPracticed"`
	AISpeechUsed      int64     `json:"aiSpeechUsed"`
	ClassicSpeechUsed int64     `json:"classicSpeechUsed"`
}

// Location is the best-effort geolocation of a client IP. Lookup
// failures produce the zero-ish value with Country "Unknown".
type Location struct {
	Country   string
	Region    string
	City      string
	Latitude  *float64
	Longitude *float64
}

// UnknownLocation is what geolocation degrades to on any failure.
func UnknownLocation() Location {
	return Location{Country: "Unknown"}
}

// Word-tracking actions. Each maps to exactly one session counter.
const (
	ActionPracticed     = "practiced"
	ActionAISpeech      = "ai_speech"
	ActionClassicSpeech = "classic_speech"
)

// IsValidAction reports whether a word-tracking action is one of the
// three counters the store knows about.
func IsValidAction(action string) bool {
	switch action {
	case ActionPracticed, ActionAISpeech, ActionClassicSpeech:
		return true
	default:
		return false
	}
}
