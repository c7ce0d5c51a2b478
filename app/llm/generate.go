package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/auorwi/grok-news-generator/app/news"
)

// Generate asks the generation model for flash news items. The request goes
// through the responses API with the web-search plugin so the model can
// ground its output in current posts.
func (c *Client) Generate(ctx context.Context, prompt string) ([]news.Item, error) {
	if !c.Available() {
		return nil, fmt.Errorf("OpenRouter API key not configured")
	}

	payload := map[string]any{
		"model":             c.generationModel,
		"input":             prompt,
		"max_output_tokens": 6000,
		"plugins": []map[string]any{
			{"id": "web", "max_results": c.maxWebResults},
		},
	}

	slog.Debug("Generation request starting", "model", c.generationModel, "max_results", c.maxWebResults)

	respBody, err := c.post(ctx, "/responses", payload)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	var resp struct {
		Output []struct {
			Type    string `json:"type"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
		Usage Usage `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse generation response: %w", err)
	}

	text := ""
	for _, out := range resp.Output {
		if out.Type != "message" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" {
				text = content.Text
				break
			}
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no output text in generation response")
	}

	items, err := news.ParseItems(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated items: %w", err)
	}

	slog.Info("Generation completed",
		"model", c.generationModel,
		"items", len(items),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return items, nil
}
