package cfg

type Cfg struct {
	// Storage configuration
	DBPath        string
	RetentionDays int

	// Deduplication configuration
	SimilarityThreshold float64
	HistoryWindowHours  int

	// Generation configuration
	OpenRouterKey   string
	GenerationModel string
	PolishModel     string
	GenerationHours int
	MaxWebResults   int
	RequestTimeout  int
	PolishThreshold int
	PromptFile      string

	// Pipeline configuration
	GenerateInterval int
	WorkerCount      int

	// Webhook configuration
	FeishuWebhookURL string
	FeishuSecret     string
	FeishuCardTitle  string

	// HTTP API configuration
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent       string
	DisplayTimezone string
	Debug           bool
	Version         string
}
