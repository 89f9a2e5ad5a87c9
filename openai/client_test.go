package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSynthesizeSendsPayload(t *testing.T) {
	var got synthesisRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("path = %q, want /v1/audio/speech", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	audio, err := c.Synthesize(context.Background(), "hello. ", "nova", 0.9)
	if err != nil {
		t.Fatalf("Synthesize(): %v", err)
	}

	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q, want %q", audio, "mp3-bytes")
	}
	if auth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", auth)
	}
	if got.Model != "tts-1-hd" || got.Voice != "nova" || got.Speed != 0.9 || got.ResponseFormat != "mp3" {
		t.Errorf("payload = %+v, want tts-1-hd/nova/0.9/mp3", got)
	}
	if got.Input != "hello. " {
		t.Errorf("input = %q, want cleaned text passed through", got.Input)
	}
}

func TestSynthesizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad voice"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	if _, err := c.Synthesize(context.Background(), "hi. ", "nova", 1.0); err == nil {
		t.Error("Synthesize() = nil error on upstream 400, want error")
	}
}

func TestCompleteUnwrapsText(t *testing.T) {
	var got chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "C-A-T spells cat."}},
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	text, err := c.Complete(context.Background(), "spell cat")
	if err != nil {
		t.Fatalf("Complete(): %v", err)
	}
	if text != "C-A-T spells cat." {
		t.Errorf("Complete() = %q, want unwrapped message content", text)
	}

	if got.Model != "gpt-3.5-turbo" || got.MaxTokens != 150 || got.Temperature != 0.7 {
		t.Errorf("payload = %+v, want gpt-3.5-turbo/150/0.7", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "spell cat" {
		t.Errorf("messages = %+v, want fixed system prompt plus user prompt", got.Messages)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	text, err := c.Complete(context.Background(), "spell cat")
	if err != nil {
		t.Fatalf("Complete(): %v", err)
	}
	if text != "No response generated" {
		t.Errorf("Complete() = %q, want fallback text", text)
	}
}

func TestTimeoutSurfacesDeadlineExceeded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClientWithBaseURL("test-key", srv.URL)
	_, err := c.Complete(ctx, "spell cat")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Complete() error = %v, want context.DeadlineExceeded in chain", err)
	}
}
