package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Object store connection
	StoreURL    string
	StoreAPIKey string

	// Auth
	ServiceAPIKey string

	// Claude analysis
	AnthropicAPIKey string
	AnthropicModel  string
	MaxPromptChars  int

	// OCR service
	OCREnabled      bool
	OCRURL          string
	OCRAPIKey       string
	OCRPollInterval time.Duration

	// Buckets and prefixes
	IncomingBucket   string
	ProcessingBucket string
	OutputBucket     string
	SOPPrefix        string
	TemplatePrefix   string
	ProcessedPrefix  string
	WorkbookPrefix   string

	// Worker pool
	WorkerCount          int
	MaxQueueSize         int
	MaxConcurrentAnalyze int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL     time.Duration
	PresignTTL time.Duration

	// Structuring
	ImplicitOrphanSections bool

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		StoreURL:    envOr("STORE_URL", "http://localhost:8080"),
		StoreAPIKey: os.Getenv("STORE_API_KEY"),

		ServiceAPIKey: os.Getenv("SOPSTRUCT_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		MaxPromptChars:  envInt("MAX_PROMPT_CHARS", 15000),

		OCREnabled:      envBool("OCR_ENABLED", false),
		OCRURL:          envOr("OCR_URL", "http://localhost:8070"),
		OCRAPIKey:       os.Getenv("OCR_API_KEY"),
		OCRPollInterval: envDuration("OCR_POLL_INTERVAL", 5*time.Second),

		IncomingBucket:   envOr("INCOMING_BUCKET", "incoming-sop"),
		ProcessingBucket: envOr("PROCESSING_BUCKET", "de-processing-bucket"),
		OutputBucket:     envOr("OUTPUT_BUCKET", "sop-output-bucket"),
		SOPPrefix:        envOr("SOP_PREFIX", "SOP/"),
		TemplatePrefix:   envOr("TEMPLATE_PREFIX", "DE_Templates/"),
		ProcessedPrefix:  envOr("PROCESSED_PREFIX", "processed-sop/"),
		WorkbookPrefix:   envOr("WORKBOOK_PREFIX", "excel_outputs/"),

		WorkerCount:          envInt("WORKER_COUNT", 4),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentAnalyze: envInt("MAX_CONCURRENT_ANALYZE", 3),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:     envDuration("JOB_TTL", 1*time.Hour),
		PresignTTL: envDuration("PRESIGN_TTL", 5*time.Minute),

		ImplicitOrphanSections: envBool("IMPLICIT_ORPHAN_SECTIONS", false),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentAnalyze <= 0 {
		cfg.MaxConcurrentAnalyze = 3
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = 15000
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 5 * time.Minute
	}
	if cfg.OCRPollInterval <= 0 {
		cfg.OCRPollInterval = 5 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.StoreAPIKey == "" {
		return fmt.Errorf("STORE_API_KEY is required")
	}
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("SOPSTRUCT_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.OCREnabled && c.OCRAPIKey == "" {
		return fmt.Errorf("OCR_API_KEY is required when OCR_ENABLED is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
