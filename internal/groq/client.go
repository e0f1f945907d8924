package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "gemma2-9b-it"
	defaultTimeout = 60 * time.Second
)

// Message represents a chat message in the OpenAI-compatible API format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client communicates with the Groq chat-completions API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client with the given API key and model. An empty model
// selects the default (gemma2-9b-it).
func New(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewWithBaseURL(apiKey, model, baseURL string) *Client {
	c := New(apiKey, model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// chatRequest is the JSON body for POST /chat/completions.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// chatResponse is the JSON returned by POST /chat/completions (non-streaming).
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat sends messages to the configured model and returns the assistant's
// response content.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat: empty choices array")
	}
	return result.Choices[0].Message.Content, nil
}

// StatusError is returned for non-200 responses from the API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("groq: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("groq: unexpected status %d: %s", e.Status, e.Body)
}

// IsTransient reports whether err looks retryable: rate limiting, server-side
// failures, or transport errors. Malformed requests (4xx other than 429) are
// not transient.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	// Network-level failures (connection refused, timeouts) are retryable.
	return err != nil
}
