// api/openai/client.go
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

const DefaultBaseURL = "https://api.openai.com"

const (
	ttsModel  = "tts-1-hd"
	chatModel = "gpt-3.5-turbo"

	chatSystemPrompt = "You are a helpful assistant that provides clear, concise responses " +
		"for spelling practice. Keep responses brief and educational."
	chatMaxTokens   = 150
	chatTemperature = 0.7
)

// Client issues speech-synthesis and chat-completion requests to the
// OpenAI API. One attempt per call; deadlines come from the caller's
// context and cancel the outbound request when exceeded.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
	}
}

// NewClientWithBaseURL points the client at an alternate API host.
// Tests use this to stand in a local httptest server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type synthesisRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

// Synthesize converts text to MP3 audio bytes. The text must already be
// cleaned and the speed clamped by the caller.
func (c *Client) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	payload := synthesisRequest{
		Model:          ttsModel,
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: "mp3",
	}

	resp, err := c.post(ctx, "/v1/audio/speech", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logUpstreamError("OpenAI TTS Error", resp)
		return nil, fmt.Errorf("speech synthesis returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	return audio, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete runs a single-turn chat completion under the fixed
// spelling-practice system prompt and returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	}

	resp, err := c.post(ctx, "/v1/chat/completions", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logUpstreamError("OpenAI API Error", resp)
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat completion response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "No response generated", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Context errors surface here; callers check for
		// context.DeadlineExceeded to report timeouts distinctly.
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	return resp, nil
}

// logUpstreamError records the upstream status and body server-side.
// The body read is best-effort; details never reach the client.
func (c *Client) logUpstreamError(prefix string, resp *http.Response) {
	detail := "Unknown error"
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil && len(body) > 0 {
		detail = string(body)
	}
	log.Printf("%s: %d %s", prefix, resp.StatusCode, detail)
}
