package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auorwi/grok-news-generator/app/database"
)

// CleanupHistoryTask prunes history records older than the retention period.
// Retention is day-grained storage hygiene, independent of the hour-grained
// dedup window.
type CleanupHistoryTask struct {
	Task
	historyRepo   database.HistoryRepository
	retentionDays int
}

func NewCleanupHistoryTask(historyRepo database.HistoryRepository, retentionDays int) *CleanupHistoryTask {
	return &CleanupHistoryTask{
		Task:          NewTask(TaskTypeCleanupHistory),
		historyRepo:   historyRepo,
		retentionDays: retentionDays,
	}
}

func (t *CleanupHistoryTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -t.retentionDays)

	deleted, err := t.historyRepo.PruneOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	slog.Info("Task completed",
		"type", "CleanupHistory",
		"duration", t.GetDuration(),
		"retention_days", t.retentionDays,
		"deleted", deleted)

	return nil
}
