// Package llm talks to OpenRouter: one model generates flash news with web
// search, a second model polishes high-score items.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Usage reports token consumption for one request.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Client is an OpenRouter API client.
type Client struct {
	apiKey          string
	baseURL         string
	generationModel string
	polishModel     string
	maxWebResults   int
	userAgent       string
	httpClient      *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// NewClient creates an OpenRouter client.
func NewClient(apiKey, generationModel, polishModel string, maxWebResults int, userAgent string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		baseURL:         DefaultBaseURL,
		generationModel: generationModel,
		polishModel:     polishModel,
		maxWebResults:   maxWebResults,
		userAgent:       userAgent,
		httpClient:      &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the client is configured with an API key.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// post sends a JSON payload and returns the raw response body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncateBody(respBody))
	}

	return respBody, nil
}

func truncateBody(body []byte) string {
	const max = 500
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
