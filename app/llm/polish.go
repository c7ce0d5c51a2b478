package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/auorwi/grok-news-generator/app/news"
	"github.com/auorwi/grok-news-generator/app/prompt"
)

// PolishResult is the rewritten title and body for one item.
type PolishResult struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Polish rewrites one item's title and body through the polish model.
func (c *Client) Polish(ctx context.Context, prompts *prompt.Builder, title, body string) (*PolishResult, error) {
	if !c.Available() {
		return nil, fmt.Errorf("OpenRouter API key not configured")
	}

	payload := map[string]any{
		"model": c.polishModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompts.Polish(title, body)},
		},
		"max_tokens":  1000,
		"temperature": 0.7,
	}

	respBody, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, fmt.Errorf("polish request failed: %w", err)
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse polish response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in polish response")
	}

	result, err := parsePolishResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// PolishBatch rewrites every item whose total score reaches the threshold,
// attaching the polished text alongside the original. A failed polish keeps
// the original item with polished=false; generation output is still worth
// publishing without the rewrite. Returns the number of items polished.
func (c *Client) PolishBatch(ctx context.Context, prompts *prompt.Builder, items []news.Item, threshold int) int {
	polished := 0

	for i := range items {
		item := &items[i]
		item.Polished = false

		if item.TotalScore() < threshold || item.Title == "" || item.Body == "" {
			continue
		}

		result, err := c.Polish(ctx, prompts, item.Title, item.Body)
		if err != nil {
			slog.Warn("Polish failed, keeping original",
				"title", item.Title, "score", item.TotalScore(), "error", err)
			continue
		}

		item.GPTTitle = result.Title
		item.GPTBody = result.Body
		item.Polished = true
		polished++

		slog.Debug("Item polished", "title", item.Title, "score", item.TotalScore())
	}

	return polished
}

// parsePolishResult decodes {title, body} from model output, tolerating
// surrounding prose by falling back to the outermost JSON object.
func parsePolishResult(text string) (*PolishResult, error) {
	var result PolishResult
	if err := json.Unmarshal([]byte(text), &result); err == nil && result.Title != "" {
		return &result, nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &result); err == nil && result.Title != "" {
			return &result, nil
		}
	}

	return nil, fmt.Errorf("unable to parse polish result")
}
