package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/auorwi/grok-news-generator/app/cfg"
	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/dedup"
	"github.com/auorwi/grok-news-generator/app/llm"
	"github.com/auorwi/grok-news-generator/app/prompt"
	"github.com/auorwi/grok-news-generator/app/webhook"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const cleanupInterval = 24 * time.Hour

// Scheduler runs pipeline and maintenance tasks on a worker pool. The
// generation cadence is measured in hours, so the queue stays nearly empty;
// the pool exists for isolation and retries, not throughput.
type Scheduler struct {
	client          *llm.Client
	prompts         *prompt.Builder
	filter          *dedup.Filter
	historyRepo     database.HistoryRepository
	bot             *webhook.FeishuBot
	generationHours int
	polishThreshold int
	retentionDays   int
	cardTitle       string
	displayLoc      *time.Location
	interval        time.Duration
	workerCount     int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface
}

func NewScheduler(client *llm.Client, prompts *prompt.Builder, filter *dedup.Filter,
	historyRepo database.HistoryRepository, bot *webhook.FeishuBot, displayLoc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		client:          client,
		prompts:         prompts,
		filter:          filter,
		historyRepo:     historyRepo,
		bot:             bot,
		generationHours: cfg.GenerationHours,
		polishThreshold: cfg.PolishThreshold,
		retentionDays:   cfg.RetentionDays,
		cardTitle:       cfg.FeishuCardTitle,
		displayLoc:      displayLoc,
		interval:        time.Duration(cfg.GenerateInterval) * time.Second,
		workerCount:     cfg.WorkerCount,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 16),
	}
}

// NewGenerateTask builds a pipeline task wired with the scheduler's
// collaborators, for on-demand runs triggered through the API.
func (s *Scheduler) NewGenerateTask() *GenerateNewsTask {
	return NewGenerateNewsTask(s.client, s.prompts, s.filter, s.historyRepo, s.bot,
		s.generationHours, s.polishThreshold, s.cardTitle, s.displayLoc)
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		slog.Info("Scheduled pipeline runs disabled, tasks run on demand only")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		generateTicker := time.NewTicker(s.interval)
		defer generateTicker.Stop()

		cleanupTicker := time.NewTicker(cleanupInterval)
		defer cleanupTicker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-generateTicker.C:
				if err := s.EnqueueTask(s.NewGenerateTask()); err != nil {
					slog.Warn("Failed to enqueue GenerateNewsTask", "error", err)
				}
			case <-cleanupTicker.C:
				if err := s.EnqueueTask(NewCleanupHistoryTask(s.historyRepo, s.retentionDays)); err != nil {
					slog.Warn("Failed to enqueue CleanupHistoryTask", "error", err)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	// Retention cleanup first so a long-idle database is pruned before the
	// first pipeline run queries it.
	if err := s.EnqueueTask(NewCleanupHistoryTask(s.historyRepo, s.retentionDays)); err != nil {
		slog.Warn("Failed to enqueue CleanupHistoryTask", "error", err)
	}

	if err := s.EnqueueTask(s.NewGenerateTask()); err != nil {
		slog.Warn("Failed to enqueue GenerateNewsTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
