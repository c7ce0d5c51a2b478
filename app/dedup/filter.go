package dedup

import (
	"fmt"
	"time"

	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/news"
)

// Duplicate pairs a rejected candidate with the matcher's reason.
type Duplicate struct {
	Item   news.Item `json:"item"`
	Reason string    `json:"reason"`
}

// Filter partitions a batch of candidates into new items and duplicates by
// checking each candidate against committed history. Candidates are NOT
// compared against each other: two near-identical items in one batch both
// pass. Committing the accepted items is the caller's explicit next step,
// so a polishing pass can enrich them before they are persisted.
type Filter struct {
	repo    database.HistoryRepository
	matcher *Matcher
	window  time.Duration

	now func() time.Time
}

// NewFilter creates a batch filter. windowHours is the trailing span of
// history considered for duplicate comparison; it is independent of the
// much longer retention period.
func NewFilter(repo database.HistoryRepository, threshold float64, windowHours int) *Filter {
	return &Filter{
		repo:    repo,
		matcher: NewMatcher(threshold),
		window:  time.Duration(windowHours) * time.Hour,
		now:     time.Now,
	}
}

// Run fetches the history window once and checks candidates in input order.
// Both returned slices preserve the input order.
func (f *Filter) Run(candidates []news.Item) ([]news.Item, []Duplicate, error) {
	cutoff := f.now().Add(-f.window)

	window, err := f.repo.QueryWindow(cutoff)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history window: %w", err)
	}

	newItems := make([]news.Item, 0, len(candidates))
	duplicates := make([]Duplicate, 0)

	for _, candidate := range candidates {
		if isDup, reason := f.matcher.IsDuplicate(candidate, window); isDup {
			duplicates = append(duplicates, Duplicate{Item: candidate, Reason: reason})
		} else {
			newItems = append(newItems, candidate)
		}
	}

	return newItems, duplicates, nil
}
