package database

import (
	"time"
)

// TimeLayout is the canonical storage format for timestamps. Timestamps are
// always stored in UTC with fixed-width fractional seconds so that string
// comparison in SQL matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// HistoryRecord is one previously accepted news item. Records are append
// only: once inserted they are never updated, only pruned by retention
// cleanup. UpdatedAt is set equal to CreatedAt and retained for forward
// compatibility.
type HistoryRecord struct {
	ID               int64
	Title            string
	TitleFingerprint string
	Body             string
	Link             string
	Source           string
	PublishTime      string // externally supplied, opaque
	ScoreImportance  int
	ScoreAuthority   int
	ScoreTrending    int
	ScoreTimeliness  int
	ScoreTotal       int
	GPTTitle         string
	GPTBody          string
	Polished         bool
	RawJSON          string // original item serialized verbatim
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Stats is the aggregate report over the history table.
type Stats struct {
	TotalRecords    int     `json:"total_records"`
	RecordsInWindow int     `json:"records_in_window"`
	PolishedCount   int     `json:"polished_count"`
	AverageScore    float64 `json:"average_score"`
}

// FormatTime renders a timestamp in the canonical storage format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
