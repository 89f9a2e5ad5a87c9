package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spellbee/api/geo"
	"spellbee/api/store"

	"github.com/gin-gonic/gin"
)

func newTrackRouter(sessions store.SessionStore, geoClient *geo.Client) *gin.Engine {
	h := NewTrackHandlers(sessions, geoClient)
	r := gin.New()
	r.POST("/api/track/session", h.TrackSession)
	r.POST("/api/track/word", h.TrackWord)
	return r
}

// stubGeo serves a fixed geolocation answer from a local server.
func stubGeo(t *testing.T) *geo.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","country":"Germany","regionName":"Berlin","city":"Berlin","lat":52.52,"lon":13.405}`))
	}))
	t.Cleanup(srv.Close)
	return geo.NewClientWithBaseURL(srv.URL)
}

func postTrack(r *gin.Engine, path, body, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent/1.0")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	r.ServeHTTP(w, req)
	return w
}

func TestTrackSessionGeneratesID(t *testing.T) {
	sessions := testSQLiteStore(t)
	r := newTrackRouter(sessions, stubGeo(t))

	w := postTrack(r, "/api/track/session", `{}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var parsed struct {
		SessionID string `json:"sessionId"`
		Success   bool   `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !parsed.Success {
		t.Error("success = false, want true")
	}
	if parsed.SessionID == "" {
		t.Fatal("sessionId is empty, want generated id")
	}
	if !strings.Contains(parsed.SessionID, "_") {
		t.Errorf("sessionId = %q, want <millis>_<suffix> format", parsed.SessionID)
	}

	sess, err := sessions.GetSession(context.Background(), parsed.SessionID)
	if err != nil {
		t.Fatalf("GetSession(): %v", err)
	}
	if sess == nil {
		t.Fatal("generated session was not persisted")
	}
	if sess.UserAgent != "test-agent/1.0" {
		t.Errorf("UserAgent = %q", sess.UserAgent)
	}
}

func TestTrackSessionTwiceIncrementsVisitsOnce(t *testing.T) {
	sessions := testSQLiteStore(t)
	r := newTrackRouter(sessions, stubGeo(t))

	for i := 0; i < 2; i++ {
		w := postTrack(r, "/api/track/session", `{"sessionId":"repeat"}`, "")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	sess, err := sessions.GetSession(context.Background(), "repeat")
	if err != nil {
		t.Fatalf("GetSession(): %v", err)
	}
	if sess.TotalVisits != 2 {
		t.Errorf("TotalVisits = %d after two calls, want 2", sess.TotalVisits)
	}
	if sess.FirstVisit.After(sess.LastActivity) {
		t.Errorf("FirstVisit %v after LastActivity %v", sess.FirstVisit, sess.LastActivity)
	}
}

func TestTrackSessionRecordsGeolocation(t *testing.T) {
	sessions := testSQLiteStore(t)
	r := newTrackRouter(sessions, stubGeo(t))

	w := postTrack(r, "/api/track/session", `{"sessionId":"geo"}`, "203.0.113.7:4711")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	sess, err := sessions.GetSession(context.Background(), "geo")
	if err != nil {
		t.Fatalf("GetSession(): %v", err)
	}
	if sess.Country != "Germany" || sess.City != "Berlin" {
		t.Errorf("location = %s/%s, want Germany/Berlin", sess.Country, sess.City)
	}
	if sess.IPAddress != "203.0.113.7" {
		t.Errorf("IPAddress = %q, want 203.0.113.7", sess.IPAddress)
	}
}

func TestTrackSessionInvalidJSON(t *testing.T) {
	r := newTrackRouter(testSQLiteStore(t), stubGeo(t))

	w := postTrack(r, "/api/track/session", `{broken`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorBody(t, w); got != "Invalid JSON body" {
		t.Errorf("error = %q", got)
	}
}

func TestTrackSessionStoreFailure(t *testing.T) {
	r := newTrackRouter(failingStore{}, stubGeo(t))

	w := postTrack(r, "/api/track/session", `{"sessionId":"s1"}`, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := errorBody(t, w); got != "Failed to track session" {
		t.Errorf("error = %q", got)
	}
}

func TestTrackWordPracticed(t *testing.T) {
	sessions := testSQLiteStore(t)
	r := newTrackRouter(sessions, stubGeo(t))

	w := postTrack(r, "/api/track/word", `{"sessionId":"s1","action":"practiced"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	sess, err := sessions.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSession(): %v", err)
	}
	if sess.WordsPracticed != 1 {
		t.Errorf("WordsPracticed = %d, want 1", sess.WordsPracticed)
	}
	if sess.AISpeechUsed != 0 || sess.ClassicSpeechUsed != 0 {
		t.Errorf("other counters moved: %d/%d, want 0/0", sess.AISpeechUsed, sess.ClassicSpeechUsed)
	}
}

func TestTrackWordInvalidAction(t *testing.T) {
	r := newTrackRouter(testSQLiteStore(t), stubGeo(t))

	w := postTrack(r, "/api/track/word", `{"sessionId":"s1","action":"bogus"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorBody(t, w); got != "Invalid action" {
		t.Errorf("error = %q, want %q", got, "Invalid action")
	}
}

func TestTrackWordMissingFields(t *testing.T) {
	r := newTrackRouter(testSQLiteStore(t), stubGeo(t))

	w := postTrack(r, "/api/track/word", `{"action":"practiced"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorBody(t, w); got != "Session ID and action are required" {
		t.Errorf("error = %q", got)
	}
}

func TestTrackWordStoreFailure(t *testing.T) {
	r := newTrackRouter(failingStore{}, stubGeo(t))

	w := postTrack(r, "/api/track/word", `{"sessionId":"s1","action":"practiced"}`, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := errorBody(t, w); got != "Failed to track word action" {
		t.Errorf("error = %q", got)
	}
}

func TestTrackingWithNoopStoreStillAcknowledges(t *testing.T) {
	r := newTrackRouter(store.NewNoopSessionStore(), stubGeo(t))

	w := postTrack(r, "/api/track/session", `{"sessionId":"edge"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("track/session status = %d, want 200 with noop store", w.Code)
	}

	w = postTrack(r, "/api/track/word", `{"sessionId":"edge","action":"practiced"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("track/word status = %d, want 200 with noop store", w.Code)
	}
}
