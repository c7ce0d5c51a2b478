package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/auorwi/grok-news-generator/app/news"
)

// SQLiteHistoryRepository implements HistoryRepository over the news_history
// table.
type SQLiteHistoryRepository struct {
	db *DB

	// now is overridable in tests to control insertion timestamps.
	now func() time.Time
}

var _ HistoryRepository = (*SQLiteHistoryRepository)(nil)

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db, now: time.Now}
}

func (r *SQLiteHistoryRepository) InsertBatch(items []news.Item) error {
	now := FormatTime(r.now())

	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to serialize item %q: %w", item.Title, err)
		}

		polished := 0
		if item.Polished {
			polished = 1
		}

		_, err = r.db.Exec(`
			INSERT INTO news_history (
				title, title_fingerprint, body, link, source, publish_time,
				score_importance, score_authority, score_trending,
				score_timeliness, score_total,
				gpt_title, gpt_body, polished, raw_json,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, item.Title, news.Fingerprint(item.Title), item.Body, item.Link,
			item.Source, item.PublishTime,
			item.Score.Importance, item.Score.Authority, item.Score.Trending,
			item.Score.Timeliness, item.Score.Total,
			item.GPTTitle, item.GPTBody, polished, string(raw), now, now)
		if err != nil {
			return fmt.Errorf("failed to insert history record %q: %w", item.Title, err)
		}
	}

	return nil
}

func (r *SQLiteHistoryRepository) QueryWindow(cutoff time.Time) ([]HistoryRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, title, title_fingerprint, body, link, source, publish_time,
		       score_importance, score_authority, score_trending,
		       score_timeliness, score_total,
		       gpt_title, gpt_body, polished, raw_json, created_at, updated_at
		FROM news_history
		WHERE created_at > ?
		ORDER BY created_at DESC, id DESC
	`, FormatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to query history window: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *SQLiteHistoryRepository) QueryLink(link string, cutoff time.Time) (*HistoryRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, title, title_fingerprint, body, link, source, publish_time,
		       score_importance, score_authority, score_trending,
		       score_timeliness, score_total,
		       gpt_title, gpt_body, polished, raw_json, created_at, updated_at
		FROM news_history
		WHERE link = ? AND created_at > ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, link, FormatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *SQLiteHistoryRepository) PruneOlderThan(cutoff time.Time) (int, error) {
	result, err := r.db.Exec(`DELETE FROM news_history WHERE created_at < ?`, FormatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned records: %w", err)
	}

	return int(deleted), nil
}

func (r *SQLiteHistoryRepository) Search(keyword string, limit int) ([]news.Item, error) {
	pattern := "%" + keyword + "%"

	rows, err := r.db.Query(`
		SELECT raw_json FROM news_history
		WHERE title LIKE ? OR body LIKE ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	defer rows.Close()

	return scanPayloads(rows)
}

func (r *SQLiteHistoryRepository) RecentByDate(date string, limit int) ([]news.Item, error) {
	rows, err := r.db.Query(`
		SELECT raw_json FROM news_history
		WHERE created_at LIKE ?
		ORDER BY score_total DESC, created_at DESC
		LIMIT ?
	`, date+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history by date: %w", err)
	}
	defer rows.Close()

	return scanPayloads(rows)
}

func (r *SQLiteHistoryRepository) TopScored(minScore int, since time.Time) ([]news.Item, error) {
	rows, err := r.db.Query(`
		SELECT raw_json FROM news_history
		WHERE score_total >= ? AND created_at > ?
		ORDER BY score_total DESC, created_at DESC
	`, minScore, FormatTime(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query top scored history: %w", err)
	}
	defer rows.Close()

	return scanPayloads(rows)
}

func (r *SQLiteHistoryRepository) Stats(windowCutoff time.Time) (*Stats, error) {
	stats := &Stats{}

	err := r.db.QueryRow(`SELECT COUNT(*) FROM news_history`).Scan(&stats.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to count history records: %w", err)
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM news_history WHERE created_at > ?`,
		FormatTime(windowCutoff)).Scan(&stats.RecordsInWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to count window records: %w", err)
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM news_history WHERE polished = 1`).Scan(&stats.PolishedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count polished records: %w", err)
	}

	var avg sql.NullFloat64
	err = r.db.QueryRow(`SELECT AVG(score_total) FROM news_history WHERE score_total > 0`).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}
	if avg.Valid {
		stats.AverageScore = avg.Float64
	}

	return stats, nil
}

func scanRecords(rows *sql.Rows) ([]HistoryRecord, error) {
	var records []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var polished int
		var createdAt, updatedAt string

		err := rows.Scan(
			&rec.ID, &rec.Title, &rec.TitleFingerprint, &rec.Body, &rec.Link,
			&rec.Source, &rec.PublishTime,
			&rec.ScoreImportance, &rec.ScoreAuthority, &rec.ScoreTrending,
			&rec.ScoreTimeliness, &rec.ScoreTotal,
			&rec.GPTTitle, &rec.GPTBody, &polished, &rec.RawJSON,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		rec.Polished = polished != 0
		if rec.CreatedAt, err = time.Parse(TimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		if rec.UpdatedAt, err = time.Parse(TimeLayout, updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at %q: %w", updatedAt, err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return records, nil
}

// scanPayloads deserializes raw_json columns. A row whose payload fails to
// decode is logged and skipped so one corrupt record does not hide the rest
// of a reporting query.
func scanPayloads(rows *sql.Rows) ([]news.Item, error) {
	items := make([]news.Item, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan payload row: %w", err)
		}

		var item news.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			slog.Warn("Skipping malformed history payload", "error", err)
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payload rows: %w", err)
	}

	return items, nil
}
