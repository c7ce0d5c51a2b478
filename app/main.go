package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auorwi/grok-news-generator/app/api"
	"github.com/auorwi/grok-news-generator/app/cfg"
	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/dedup"
	"github.com/auorwi/grok-news-generator/app/llm"
	"github.com/auorwi/grok-news-generator/app/prompt"
	"github.com/auorwi/grok-news-generator/app/tasks"
	"github.com/auorwi/grok-news-generator/app/webhook"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Grok News Generator", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appConfig.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "schema_version", version, "dirty", dirty)

	historyRepo := database.NewHistoryRepository(db)
	filter := dedup.NewFilter(historyRepo, appConfig.SimilarityThreshold, appConfig.HistoryWindowHours)

	prompts, err := prompt.Load(appConfig.PromptFile)
	if err != nil {
		slog.Error("Failed to load prompt configuration", "file", appConfig.PromptFile, "error", err)
		os.Exit(1)
	}

	client := llm.NewClient(appConfig.OpenRouterKey, appConfig.GenerationModel,
		appConfig.PolishModel, appConfig.MaxWebResults, appConfig.UserAgent,
		llm.WithTimeout(time.Duration(appConfig.RequestTimeout)*time.Second))
	if !client.Available() {
		slog.Warn("OpenRouter API key not set, pipeline runs will fail until configured")
	}

	var bot *webhook.FeishuBot
	if appConfig.FeishuWebhookURL != "" {
		bot = webhook.NewFeishuBot(appConfig.FeishuWebhookURL, appConfig.FeishuSecret)
	} else {
		slog.Info("Feishu webhook not configured, publishing disabled")
	}

	displayLoc, err := time.LoadLocation(appConfig.DisplayTimezone)
	if err != nil {
		slog.Warn("Invalid display timezone, falling back to UTC",
			"timezone", appConfig.DisplayTimezone, "error", err)
		displayLoc = time.UTC
	}

	scheduler := tasks.NewScheduler(client, prompts, filter, historyRepo, bot, displayLoc)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(historyRepo, scheduler,
		appConfig.HistoryWindowHours, appConfig.RetentionDays, appConfig.Version)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
