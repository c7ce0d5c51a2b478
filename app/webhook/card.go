package webhook

import (
	"fmt"
	"time"

	"github.com/auorwi/grok-news-generator/app/news"
)

// BuildCard renders the item list as an interactive Feishu card. Items
// carrying a polished version show it prominently with the original behind
// a collapsible panel; unpolished items show the original, truncated.
// Timestamps are formatted in loc for display only.
func BuildCard(items []news.Item, title string, loc *time.Location) map[string]any {
	elements := []any{
		markdownBlock(fmt.Sprintf("Generated: %s", time.Now().In(loc).Format("2006-01-02 15:04"))),
		map[string]any{"tag": "hr"},
	}

	for idx, item := range items {
		total := item.TotalScore()

		elements = append(elements, markdownBlock(fmt.Sprintf(
			"**%s Flash %d** | Score: **%d/100** | Source: %s",
			scoreEmoji(total), idx+1, total, sourceOrUnknown(item.Source))))

		if item.PublishTime != "" {
			elements = append(elements, markdownBlock(fmt.Sprintf("Published: %s", item.PublishTime)))
		}

		if item.Polished && item.GPTTitle != "" && item.GPTBody != "" {
			elements = append(elements, collapsiblePanel("Original version (click to expand)",
				fmt.Sprintf("**Title**: %s\n\n**Body**: %s", item.Title, item.Body)))
			elements = append(elements,
				markdownBlock("**Polished version**"),
				markdownBlock(fmt.Sprintf("**Title**: %s", item.GPTTitle)),
				markdownBlock(fmt.Sprintf("**Body**: %s", item.GPTBody)))
		} else {
			elements = append(elements,
				markdownBlock("**Original version** (below polish threshold)"),
				markdownBlock(fmt.Sprintf("**Title**: %s", item.Title)),
				markdownBlock(fmt.Sprintf("**Body**: %s", truncateBody(item.Body, 300))))
		}

		if item.Link != "" {
			elements = append(elements, map[string]any{
				"tag": "action",
				"actions": []any{
					map[string]any{
						"tag":  "button",
						"text": map[string]any{"tag": "plain_text", "content": "View source"},
						"type": "default",
						"url":  item.Link,
					},
				},
			})
		}

		if idx < len(items)-1 {
			elements = append(elements, map[string]any{"tag": "hr"})
		}
	}

	polishedCount := 0
	scoreSum := 0
	for _, item := range items {
		if item.Polished {
			polishedCount++
		}
		scoreSum += item.TotalScore()
	}

	elements = append(elements, map[string]any{
		"tag": "note",
		"elements": []any{
			map[string]any{
				"tag": "plain_text",
				"content": fmt.Sprintf("%d items | %d polished | informational only",
					len(items), polishedCount),
			},
		},
	})

	avgScore := 0.0
	if len(items) > 0 {
		avgScore = float64(scoreSum) / float64(len(items))
	}

	return map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title":    map[string]any{"tag": "plain_text", "content": title},
				"template": headerColor(avgScore),
			},
			"elements": elements,
		},
	}
}

func markdownBlock(content string) map[string]any {
	return map[string]any{
		"tag":  "div",
		"text": map[string]any{"tag": "lark_md", "content": content},
	}
}

func collapsiblePanel(header, content string) map[string]any {
	return map[string]any{
		"tag":      "collapsible_panel",
		"expanded": false,
		"header": map[string]any{
			"title": map[string]any{"tag": "plain_text", "content": header},
		},
		"border":           map[string]any{"color": "grey"},
		"vertical_spacing": "8px",
		"padding":          "8px 8px 8px 8px",
		"elements":         []any{markdownBlock(content)},
	}
}

func scoreEmoji(total int) string {
	switch {
	case total >= 80:
		return "🔥"
	case total >= 70:
		return "⚡"
	case total >= 60:
		return "📢"
	default:
		return "📌"
	}
}

func headerColor(avgScore float64) string {
	switch {
	case avgScore >= 80:
		return "red"
	case avgScore >= 70:
		return "orange"
	default:
		return "blue"
	}
}

func sourceOrUnknown(source string) string {
	if source == "" {
		return "Unknown"
	}
	return source
}

func truncateBody(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}
