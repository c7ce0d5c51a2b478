package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/dedup"
	"github.com/auorwi/grok-news-generator/app/llm"
	"github.com/auorwi/grok-news-generator/app/news"
	"github.com/auorwi/grok-news-generator/app/prompt"
	"github.com/auorwi/grok-news-generator/app/webhook"
)

// GenerateNewsTask runs one full pipeline pass: generate flash items, drop
// duplicates against history, polish high-score survivors, commit them to
// history, and publish the publishable subset to the webhook.
type GenerateNewsTask struct {
	Task
	client          *llm.Client
	prompts         *prompt.Builder
	filter          *dedup.Filter
	historyRepo     database.HistoryRepository
	bot             *webhook.FeishuBot
	generationHours int
	polishThreshold int
	cardTitle       string
	displayLoc      *time.Location
}

func NewGenerateNewsTask(client *llm.Client, prompts *prompt.Builder, filter *dedup.Filter,
	historyRepo database.HistoryRepository, bot *webhook.FeishuBot,
	generationHours, polishThreshold int, cardTitle string, displayLoc *time.Location) *GenerateNewsTask {
	return &GenerateNewsTask{
		Task:            NewTask(TaskTypeGenerateNews),
		client:          client,
		prompts:         prompts,
		filter:          filter,
		historyRepo:     historyRepo,
		bot:             bot,
		generationHours: generationHours,
		polishThreshold: polishThreshold,
		cardTitle:       cardTitle,
		displayLoc:      displayLoc,
	}
}

func (t *GenerateNewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.client.Generate(ctx, t.prompts.Generation(t.generationHours))
	if err != nil {
		return fmt.Errorf("failed to generate news: %w", err)
	}
	if len(items) == 0 {
		slog.Info("Generation returned no items")
		return nil
	}

	news.SortByScore(items)

	newItems, duplicates, err := t.filter.Run(items)
	if err != nil {
		return fmt.Errorf("failed to filter duplicates: %w", err)
	}

	for _, dup := range duplicates {
		slog.Debug("Skipped duplicate", "title", dup.Item.Title, "reason", dup.Reason)
	}

	if len(newItems) == 0 {
		slog.Info("No new items after deduplication",
			"generated", len(items), "duplicates", len(duplicates))
		return nil
	}

	polishedCount := t.client.PolishBatch(ctx, t.prompts, newItems, t.polishThreshold)

	// An unwritable history makes every future dedup pass unreliable, so a
	// storage failure here ends the run.
	if err := t.historyRepo.InsertBatch(newItems); err != nil {
		return fmt.Errorf("failed to record accepted items: %w", err)
	}

	publishable := make([]news.Item, 0, len(newItems))
	for _, item := range newItems {
		if item.TotalScore() >= t.polishThreshold {
			publishable = append(publishable, item)
		}
	}

	published := 0
	if t.bot != nil && len(publishable) > 0 {
		if err := t.bot.Send(ctx, webhook.BuildCard(publishable, t.cardTitle, t.displayLoc)); err != nil {
			slog.Error("Failed to publish card", "items", len(publishable), "error", err)
		} else {
			published = len(publishable)
		}
	}

	slog.Info("Task completed",
		"type", "GenerateNews",
		"duration", t.GetDuration(),
		"generated", len(items),
		"duplicates", len(duplicates),
		"new", len(newItems),
		"polished", polishedCount,
		"published", published)

	return nil
}
