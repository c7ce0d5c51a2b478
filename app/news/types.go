package news

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Score holds the per-dimension rating attached to a flash item by the
// generation stage. The values are opaque to this application: they are
// carried through storage and reporting but never recomputed.
type Score struct {
	Importance int `json:"importance"`
	Authority  int `json:"authority"`
	Trending   int `json:"trending"`
	Timeliness int `json:"timeliness"`
	Total      int `json:"total"`
}

// UnmarshalJSON accepts either the full score object or a bare number.
// Older generation outputs occasionally return a single total score.
func (s *Score) UnmarshalJSON(data []byte) error {
	type scoreAlias Score
	var obj scoreAlias
	if err := json.Unmarshal(data, &obj); err == nil {
		*s = Score(obj)
		return nil
	}

	var total float64
	if err := json.Unmarshal(data, &total); err != nil {
		return err
	}
	*s = Score{Total: int(total)}
	return nil
}

// Item is a single flash news item as produced by the generation stage and
// enriched by the polishing stage.
type Item struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	PublishTime string `json:"publish_time"`
	Score       Score  `json:"score"`

	GPTTitle string `json:"gpt_title,omitempty"`
	GPTBody  string `json:"gpt_body,omitempty"`
	Polished bool   `json:"polished,omitempty"`
}

// TotalScore returns the item's total rating for sorting and thresholds.
func (i Item) TotalScore() int {
	return i.Score.Total
}

// SortByScore orders items by total score, highest first. The sort is
// stable so items with equal scores keep their generation order.
func SortByScore(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].TotalScore() > items[b].TotalScore()
	})
}

// NormalizeTitle lower-cases and trims a title. No other transformation is
// applied: stripping punctuation or entities risks conflating distinct
// events that share most of a headline.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Fingerprint returns the md5 hex digest of the normalized title. It is a
// fast exact-match key, not the primary duplicate check.
func Fingerprint(title string) string {
	sum := md5.Sum([]byte(NormalizeTitle(title)))
	return hex.EncodeToString(sum[:])
}
