package webhook

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auorwi/grok-news-generator/app/news"
)

func cardJSON(t *testing.T, card map[string]any) string {
	t.Helper()
	data, err := json.Marshal(card)
	require.NoError(t, err)
	return string(data)
}

func TestBuildCard_PolishedItem(t *testing.T) {
	items := []news.Item{
		{
			Title:    "Raw title",
			Body:     "Raw body",
			Link:     "https://example.com/a",
			Source:   "TestWire",
			Score:    news.Score{Total: 85},
			GPTTitle: "Polished title",
			GPTBody:  "Polished body",
			Polished: true,
		},
	}

	card := BuildCard(items, "Crypto Flash News", time.UTC)
	assert.Equal(t, "interactive", card["msg_type"])

	rendered := cardJSON(t, card)
	assert.Contains(t, rendered, "Polished title")
	assert.Contains(t, rendered, "Raw title")
	assert.Contains(t, rendered, "collapsible_panel")
	assert.Contains(t, rendered, "https://example.com/a")
	assert.Contains(t, rendered, "TestWire")
	assert.Contains(t, rendered, "🔥")
	assert.Contains(t, rendered, `"template":"red"`)
}

func TestBuildCard_UnpolishedItem(t *testing.T) {
	items := []news.Item{
		{Title: "Plain title", Body: "Plain body", Score: news.Score{Total: 65}},
	}

	rendered := cardJSON(t, BuildCard(items, "Title", time.UTC))
	assert.Contains(t, rendered, "Plain title")
	assert.NotContains(t, rendered, "collapsible_panel")
	assert.Contains(t, rendered, "📢")
	assert.Contains(t, rendered, `"template":"blue"`)
	assert.Contains(t, rendered, "Unknown", "empty source renders as Unknown")
}

func TestBuildCard_LongBodyTruncated(t *testing.T) {
	items := []news.Item{
		{Title: "T", Body: strings.Repeat("x", 400), Score: news.Score{Total: 50}},
	}

	rendered := cardJSON(t, BuildCard(items, "Title", time.UTC))
	assert.Contains(t, rendered, strings.Repeat("x", 300)+"...")
	assert.NotContains(t, rendered, strings.Repeat("x", 301))
}

func TestBuildCard_Footer(t *testing.T) {
	items := []news.Item{
		{Title: "A", Body: "b", Score: news.Score{Total: 90}, GPTTitle: "pa", GPTBody: "pb", Polished: true},
		{Title: "B", Body: "b", Score: news.Score{Total: 60}},
	}

	rendered := cardJSON(t, BuildCard(items, "Title", time.UTC))
	assert.Contains(t, rendered, "2 items | 1 polished")
	// Average of 90 and 60 is 75, so the header is orange
	assert.Contains(t, rendered, `"template":"orange"`)
}

func TestBuildCard_Empty(t *testing.T) {
	rendered := cardJSON(t, BuildCard(nil, "Title", time.UTC))
	assert.Contains(t, rendered, "0 items | 0 polished")
	assert.Contains(t, rendered, `"template":"blue"`)
}

func TestScoreEmoji(t *testing.T) {
	tests := []struct {
		total    int
		expected string
	}{
		{95, "🔥"},
		{80, "🔥"},
		{79, "⚡"},
		{70, "⚡"},
		{65, "📢"},
		{60, "📢"},
		{59, "📌"},
		{0, "📌"},
	}

	for _, tt := range tests {
		if got := scoreEmoji(tt.total); got != tt.expected {
			t.Errorf("scoreEmoji(%d) = %s, expected %s", tt.total, got, tt.expected)
		}
	}
}
