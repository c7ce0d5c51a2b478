package database

import (
	"time"

	"github.com/auorwi/grok-news-generator/app/news"
)

// HistoryRepository is the query and persistence surface for accepted news
// history. All cutoff comparisons are strict: QueryWindow and QueryLink
// cover created_at > cutoff, PruneOlderThan deletes created_at < cutoff.
type HistoryRepository interface {
	// InsertBatch appends one record per item, all sharing one insertion
	// timestamp. Each row write is all-or-nothing but the batch is not
	// atomic: on error, earlier rows may already be committed.
	InsertBatch(items []news.Item) error

	// QueryWindow returns records with created_at > cutoff, newest first,
	// ties broken by descending id so same-second batches keep a stable
	// order.
	QueryWindow(cutoff time.Time) ([]HistoryRecord, error)

	// QueryLink returns the newest record with an exact link match inside
	// the window, or nil when there is none.
	QueryLink(link string, cutoff time.Time) (*HistoryRecord, error)

	// PruneOlderThan irreversibly deletes records with created_at < cutoff
	// and returns the deleted count.
	PruneOlderThan(cutoff time.Time) (int, error)

	// Search returns items whose title or body contains the keyword,
	// newest first. Records whose stored payload no longer deserializes
	// are skipped, not fatal.
	Search(keyword string, limit int) ([]news.Item, error)

	// RecentByDate returns items inserted on the given date (YYYY-MM-DD,
	// UTC), best scores first.
	RecentByDate(date string, limit int) ([]news.Item, error)

	// TopScored returns items with score_total >= minScore inserted after
	// since, best scores first.
	TopScored(minScore int, since time.Time) ([]news.Item, error)

	// Stats reports aggregate counts; windowCutoff bounds the in-window
	// count.
	Stats(windowCutoff time.Time) (*Stats, error)
}
