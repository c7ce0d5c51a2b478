package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/news"
)

// stubRepository serves a fixed window and records the cutoff it was asked for.
type stubRepository struct {
	window     []database.HistoryRecord
	lastCutoff time.Time
	err        error
}

func (s *stubRepository) QueryWindow(cutoff time.Time) ([]database.HistoryRecord, error) {
	s.lastCutoff = cutoff
	return s.window, s.err
}

func (s *stubRepository) InsertBatch(items []news.Item) error { return nil }

func (s *stubRepository) QueryLink(link string, cutoff time.Time) (*database.HistoryRecord, error) {
	return nil, nil
}

func (s *stubRepository) PruneOlderThan(cutoff time.Time) (int, error) { return 0, nil }

func (s *stubRepository) Search(keyword string, limit int) ([]news.Item, error) { return nil, nil }

func (s *stubRepository) RecentByDate(date string, limit int) ([]news.Item, error) {
	return nil, nil
}

func (s *stubRepository) TopScored(minScore int, since time.Time) ([]news.Item, error) {
	return nil, nil
}

func (s *stubRepository) Stats(windowCutoff time.Time) (*database.Stats, error) { return nil, nil }

func TestFilter_Run_Partition(t *testing.T) {
	repo := &stubRepository{window: []database.HistoryRecord{
		record("Bitcoin hits new all-time high above $100K", "https://example.com/btc"),
	}}
	filter := NewFilter(repo, 0.7, 24)

	candidates := []news.Item{
		{Title: "Ethereum upgrade scheduled for next month", Link: "https://example.com/eth"},
		{Title: "Bitcoin hits new all-time high above $100K", Link: "https://example.com/other"},
		{Title: "Solana outage resolved after six hours", Link: "https://example.com/sol"},
	}

	newItems, duplicates, err := filter.Run(candidates)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(newItems) != 2 {
		t.Fatalf("Expected 2 new items, got %d", len(newItems))
	}
	if len(duplicates) != 1 {
		t.Fatalf("Expected 1 duplicate, got %d", len(duplicates))
	}
	if duplicates[0].Item.Link != "https://example.com/other" {
		t.Errorf("Wrong item flagged as duplicate: %+v", duplicates[0].Item)
	}
	if duplicates[0].Reason == "" {
		t.Error("Duplicate should carry a reason")
	}
}

func TestFilter_Run_PreservesInputOrder(t *testing.T) {
	repo := &stubRepository{}
	filter := NewFilter(repo, 0.7, 24)

	candidates := make([]news.Item, 5)
	for i := range candidates {
		candidates[i] = news.Item{Title: fmt.Sprintf("Distinct headline number %d with padding text", i)}
	}

	newItems, duplicates, err := filter.Run(candidates)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(duplicates) != 0 {
		t.Fatalf("Expected no duplicates against empty history, got %d", len(duplicates))
	}

	for i, item := range newItems {
		if item.Title != candidates[i].Title {
			t.Errorf("Position %d: expected %q, got %q", i, candidates[i].Title, item.Title)
		}
	}
}

func TestFilter_Run_WithinBatchDuplicatesPass(t *testing.T) {
	// Candidates are only compared against committed history, never against
	// each other: the same item twice in one batch passes twice.
	repo := &stubRepository{}
	filter := NewFilter(repo, 0.7, 24)

	candidates := []news.Item{
		{Title: "Exchange X halts withdrawals", Link: "https://example.com/x"},
		{Title: "Exchange X halts withdrawals", Link: "https://example.com/x"},
	}

	newItems, duplicates, err := filter.Run(candidates)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(newItems) != 2 || len(duplicates) != 0 {
		t.Errorf("Expected both in-batch copies to pass, got %d new / %d duplicates",
			len(newItems), len(duplicates))
	}
}

func TestFilter_Run_WindowCutoff(t *testing.T) {
	repo := &stubRepository{}
	filter := NewFilter(repo, 0.7, 24)
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	filter.now = func() time.Time { return fixed }

	if _, _, err := filter.Run(nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := fixed.Add(-24 * time.Hour)
	if !repo.lastCutoff.Equal(expected) {
		t.Errorf("Expected cutoff %v, got %v", expected, repo.lastCutoff)
	}
}

func TestFilter_Run_RepositoryError(t *testing.T) {
	repo := &stubRepository{err: fmt.Errorf("disk gone")}
	filter := NewFilter(repo, 0.7, 24)

	if _, _, err := filter.Run([]news.Item{{Title: "anything"}}); err == nil {
		t.Error("Expected error when the history window cannot be loaded")
	}
}
