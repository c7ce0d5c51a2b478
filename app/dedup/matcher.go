package dedup

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/news"
)

const (
	linkReasonMaxLen  = 50
	titleReasonMaxLen = 40
)

// Matcher decides whether a single candidate item duplicates anything in a
// window of history records.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher with the given title similarity threshold.
// The threshold is inclusive: a ratio exactly at the threshold is a
// duplicate.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// IsDuplicate checks the candidate against the window records. Link match
// takes precedence over title similarity: an exact link match is cheap and
// unambiguous and short-circuits the O(n) similarity scan. On a match the
// returned reason is a human-readable explanation.
func (m *Matcher) IsDuplicate(candidate news.Item, window []database.HistoryRecord) (bool, string) {
	if candidate.Link != "" {
		for _, rec := range window {
			if rec.Link == candidate.Link {
				return true, fmt.Sprintf("link duplicate: %s", truncate(rec.Link, linkReasonMaxLen))
			}
		}
	}

	normalized := news.NormalizeTitle(candidate.Title)
	fingerprint := news.Fingerprint(candidate.Title)

	for _, rec := range window {
		// Fingerprint equality means identical normalized titles; skip
		// the alignment scan for that record.
		sim := 1.0
		if rec.TitleFingerprint != fingerprint {
			sim = Similarity(normalized, news.NormalizeTitle(rec.Title))
		}

		if sim >= m.threshold {
			return true, fmt.Sprintf("title similar (%.0f%%): %s",
				sim*100, truncate(rec.Title, titleReasonMaxLen))
		}
	}

	return false, ""
}

// Similarity computes a character-level sequence alignment ratio in [0,1]
// between two already-normalized titles. Two empty strings are identical
// (ratio 1.0); callers should avoid empty titles rather than this guarding
// against them.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
