package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/tasks"
)

const (
	defaultSearchLimit = 20
	defaultRecentLimit = 50
	maxQueryLimit      = 200
)

// runTrigger enqueues on-demand pipeline and maintenance tasks. Implemented
// by the task scheduler.
type runTrigger interface {
	EnqueueTask(task tasks.TaskInterface) error
	NewGenerateTask() *tasks.GenerateNewsTask
}

type Handler struct {
	historyRepo   database.HistoryRepository
	trigger       runTrigger
	windowHours   int
	retentionDays int
	version       string
}

func NewHandler(historyRepo database.HistoryRepository, trigger runTrigger,
	windowHours, retentionDays int, version string) *Handler {
	return &Handler{
		historyRepo:   historyRepo,
		trigger:       trigger,
		windowHours:   windowHours,
		retentionDays: retentionDays,
		version:       version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	cutoff := time.Now().UTC().Add(-time.Duration(h.windowHours) * time.Hour)
	if stats, err := h.historyRepo.Stats(cutoff); err == nil {
		health["history_records"] = stats.TotalRecords
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	cutoff := time.Now().UTC().Add(-time.Duration(h.windowHours) * time.Hour)

	stats, err := h.historyRepo.Stats(cutoff)
	if err != nil {
		slog.Error("Database error", "operation", "stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_records":     stats.TotalRecords,
		"records_in_window": stats.RecordsInWindow,
		"polished_count":    stats.PolishedCount,
		"average_score":     stats.AverageScore,
		"window_hours":      h.windowHours,
		"retention_days":    h.retentionDays,
	})
}

func (h *Handler) SearchNews(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit := parseLimit(c.Query("limit"), defaultSearchLimit)

	items, err := h.historyRepo.Search(keyword, limit)
	if err != nil {
		slog.Error("Database error", "operation", "search", "keyword", keyword, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keyword": keyword,
		"count":   len(items),
		"items":   items,
	})
}

func (h *Handler) RecentNews(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	limit := parseLimit(c.Query("limit"), defaultRecentLimit)

	items, err := h.historyRepo.RecentByDate(date, limit)
	if err != nil {
		slog.Error("Database error", "operation", "recent", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"count": len(items),
		"items": items,
	})
}

func (h *Handler) TopNews(c *gin.Context) {
	minScore := 70
	if v := c.Query("min_score"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_score must be within [0,100]"})
			return
		}
		minScore = parsed
	}

	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	items, err := h.historyRepo.TopScored(minScore, since)
	if err != nil {
		slog.Error("Database error", "operation", "top", "min_score", minScore, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"min_score": minScore,
		"days":      days,
		"count":     len(items),
		"items":     items,
	})
}

func (h *Handler) TriggerRun(c *gin.Context) {
	if err := h.trigger.EnqueueTask(h.trigger.NewGenerateTask()); err != nil {
		slog.Error("Failed to enqueue pipeline run", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to schedule run"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

func (h *Handler) TriggerPrune(c *gin.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -h.retentionDays)

	deleted, err := h.historyRepo.PruneOlderThan(cutoff)
	if err != nil {
		slog.Error("Database error", "operation", "prune", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prune failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":        deleted,
		"retention_days": h.retentionDays,
	})
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}
