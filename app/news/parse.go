package news

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// ParseItems extracts a list of items from model output. The text is rarely
// clean JSON: models wrap it in code fences, prepend commentary, or leave
// trailing commas. Each strategy is tried in order until one yields items.
func ParseItems(text string) ([]Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty response text")
	}

	if items, ok := tryParse(text); ok {
		return items, nil
	}

	if block, ok := extractCodeBlock(text); ok {
		if items, ok := tryParse(block); ok {
			return items, nil
		}
	}

	if fragment, ok := extractDelimited(text, '[', ']'); ok {
		if items, ok := tryParse(fragment); ok {
			return items, nil
		}
	}

	if fragment, ok := extractDelimited(text, '{', '}'); ok {
		if items, ok := tryParse(fragment); ok {
			return items, nil
		}
	}

	return nil, fmt.Errorf("unable to parse items from response (%d chars)", len(text))
}

// tryParse attempts to decode text as an item array or a single item,
// retrying once with trailing commas removed.
func tryParse(text string) ([]Item, bool) {
	for _, candidate := range []string{text, trailingCommaRe.ReplaceAllString(text, "$1")} {
		var list []Item
		if err := json.Unmarshal([]byte(candidate), &list); err == nil {
			return list, true
		}

		var single Item
		if err := json.Unmarshal([]byte(candidate), &single); err == nil && single.Title != "" {
			return []Item{single}, true
		}
	}
	return nil, false
}

func extractCodeBlock(text string) (string, bool) {
	start := strings.Index(text, "```json")
	if start == -1 {
		return "", false
	}
	start += len("```json")

	end := strings.Index(text[start:], "```")
	if end == -1 {
		return "", false
	}

	return strings.TrimSpace(text[start : start+end]), true
}

func extractDelimited(text string, opening, closing byte) (string, bool) {
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
