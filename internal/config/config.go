package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port   string
	APIKey string

	SolanaTrackerBaseURL string
	SolanaTrackerAPIKey  string
	BirdeyeBaseURL       string
	BirdeyeAPIKey        string

	OpenAIAPIKey      string
	OpenAIModel       string
	AnalystPromptMode string
	LLMTimeoutSecs    int

	RedisURL           string
	WalletCacheTTLSecs int

	TelegramBotToken string
}

func Load() *Config {
	cfg := &Config{
		APIKey:               os.Getenv("API_KEY"),
		SolanaTrackerBaseURL: strings.TrimSpace(os.Getenv("SOLANATRACKER_BASE_URL")),
		SolanaTrackerAPIKey:  os.Getenv("SOLANATRACKER_API_KEY"),
		BirdeyeBaseURL:       strings.TrimSpace(os.Getenv("BIRDEYE_BASE_URL")),
		BirdeyeAPIKey:        os.Getenv("BIRDEYE_API_KEY"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		RedisURL:             os.Getenv("REDIS_URL"),
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.SolanaTrackerAPIKey == "" {
		log.Println("Warning: SOLANATRACKER_API_KEY not set")
	}
	if cfg.BirdeyeAPIKey == "" {
		log.Println("Warning: BIRDEYE_API_KEY not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, analysis will use deterministic fallback text")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.AnalystPromptMode = strings.ToLower(strings.TrimSpace(os.Getenv("ANALYST_PROMPT_MODE")))
	if cfg.AnalystPromptMode == "" {
		cfg.AnalystPromptMode = "risk"
	}
	if cfg.AnalystPromptMode != "risk" && cfg.AnalystPromptMode != "activity" {
		log.Printf("Warning: unsupported ANALYST_PROMPT_MODE=%q, defaulting to risk", cfg.AnalystPromptMode)
		cfg.AnalystPromptMode = "risk"
	}

	cfg.LLMTimeoutSecs = 90
	if v := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LLMTimeoutSecs = n
		}
	}

	cfg.WalletCacheTTLSecs = 60
	if v := strings.TrimSpace(os.Getenv("WALLET_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WalletCacheTTLSecs = n
		}
	}

	return cfg
}
