package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://serpapi.com"
	defaultTimeout = 30 * time.Second
	maxSnippets    = 5
)

// Client communicates with the SerpAPI search endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client with the given API key.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// searchResponse mirrors the subset of the SerpAPI JSON we consume.
type searchResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search runs a web search and returns a compact plain-text digest of the
// top results, suitable for feeding back to a language model as an
// observation.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("search: %s", result.Error)
	}

	return digest(result), nil
}

// digest flattens a search response into a few lines of text. The answer box
// comes first when present, followed by up to maxSnippets organic results.
func digest(r searchResponse) string {
	var sb strings.Builder

	if r.AnswerBox.Answer != "" {
		sb.WriteString(r.AnswerBox.Answer)
		sb.WriteString("\n")
	} else if r.AnswerBox.Snippet != "" {
		sb.WriteString(r.AnswerBox.Snippet)
		sb.WriteString("\n")
	}

	for i, res := range r.OrganicResults {
		if i >= maxSnippets {
			break
		}
		if res.Snippet == "" {
			continue
		}
		if res.Title != "" {
			sb.WriteString(res.Title)
			sb.WriteString(": ")
		}
		sb.WriteString(res.Snippet)
		sb.WriteString("\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "No results found."
	}
	return out
}
