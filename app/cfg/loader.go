package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath        string `long:"db-path" env:"DB_PATH" default:"news_history.db" description:"SQLite history database file"`
	RetentionDays int    `long:"retention-days" env:"RETENTION_DAYS" default:"7" description:"Days to keep history records before pruning"`

	// Deduplication configuration
	SimilarityThreshold float64 `long:"dedup-threshold" env:"DEDUP_THRESHOLD" default:"0.7" description:"Title similarity threshold for dedup (0-1)"`
	HistoryWindowHours  int     `long:"dedup-hours" env:"DEDUP_HOURS" default:"24" description:"History window for dedup in hours"`

	// Generation configuration
	OpenRouterKey   string `long:"openrouter-key" env:"OPENROUTER_API_KEY" description:"OpenRouter API key (required for generation)"`
	GenerationModel string `long:"generation-model" env:"GENERATION_MODEL" default:"x-ai/grok-4.1-fast" description:"Model for flash news generation"`
	PolishModel     string `long:"polish-model" env:"POLISH_MODEL" default:"openai/gpt-5.1" description:"Model for polishing high-score items"`
	GenerationHours int    `long:"hours" env:"GENERATION_HOURS" default:"2" description:"Time window for generated news in hours"`
	MaxWebResults   int    `long:"max-results" env:"MAX_WEB_RESULTS" default:"20" description:"Max web search results for generation"`
	RequestTimeout  int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"120" description:"LLM request timeout in seconds"`
	PolishThreshold int    `long:"polish-threshold" env:"POLISH_THRESHOLD" default:"70" description:"Minimum total score for polishing and publishing"`
	PromptFile      string `long:"prompt-file" env:"PROMPT_FILE" description:"YAML file overriding prompt sources and rules (optional)"`

	// Pipeline configuration
	GenerateInterval int `long:"generate-interval" env:"GENERATE_INTERVAL" default:"7200" description:"Pipeline run interval in seconds (0 disables scheduled runs)"`
	WorkerCount      int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background task workers"`

	// Webhook configuration
	FeishuWebhookURL string `long:"feishu-webhook-url" env:"FEISHU_WEBHOOK_URL" description:"Feishu bot webhook URL (empty disables publishing)"`
	FeishuSecret     string `long:"feishu-secret" env:"FEISHU_WEBHOOK_KEY" description:"Feishu webhook signing secret (optional)"`
	FeishuCardTitle  string `long:"feishu-card-title" env:"FEISHU_CARD_TITLE" default:"Crypto Flash News" description:"Feishu card title"`

	// HTTP API configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent       string `long:"user-agent" env:"USER_AGENT" default:"Grok News Generator/1.0" description:"User agent string for HTTP requests"`
	DisplayTimezone string `long:"display-timezone" env:"DISPLAY_TZ" default:"Asia/Shanghai" description:"Timezone for human-readable timestamps in published cards"`
	Debug           bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// Best effort, matching the original tooling: a missing .env is fine.
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.SimilarityThreshold < 0 || raw.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("dedup threshold must be within [0,1], got %v", raw.SimilarityThreshold)
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		RetentionDays:       raw.RetentionDays,
		SimilarityThreshold: raw.SimilarityThreshold,
		HistoryWindowHours:  raw.HistoryWindowHours,
		OpenRouterKey:       raw.OpenRouterKey,
		GenerationModel:     raw.GenerationModel,
		PolishModel:         raw.PolishModel,
		GenerationHours:     raw.GenerationHours,
		MaxWebResults:       raw.MaxWebResults,
		RequestTimeout:      raw.RequestTimeout,
		PolishThreshold:     raw.PolishThreshold,
		PromptFile:          raw.PromptFile,
		GenerateInterval:    raw.GenerateInterval,
		WorkerCount:         raw.WorkerCount,
		FeishuWebhookURL:    raw.FeishuWebhookURL,
		FeishuSecret:        raw.FeishuSecret,
		FeishuCardTitle:     raw.FeishuCardTitle,
		Port:                raw.Port,
		APIAccessKey:        raw.APIAccessKey,
		UserAgent:           raw.UserAgent,
		DisplayTimezone:     raw.DisplayTimezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
