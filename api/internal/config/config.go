package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DefaultLLM string

	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIPreferredModel string
	OpenAIBaseURL        string

	GeminiAPIKey         string
	GeminiModel          string
	GeminiPreferredModel string

	DatabaseURL string

	TelegramBotToken string
	WebhookURL       string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the environment, after merging a local .env file when present.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] config: .env: %v", err)
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8000"),
		DefaultLLM: getEnv("DEFAULT_LLM", "gpt"),

		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIPreferredModel: getEnv("OPENAI_PREFERRED_MODEL", "gpt-4.1"),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),

		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiPreferredModel: getEnv("GEMINI_PREFERRED_MODEL", "gemini-2.5-pro"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
	if cfg.OpenAIAPIKey == "" && cfg.GeminiAPIKey == "" {
		return nil, errors.New("missing required env: set OPENAI_API_KEY or GEMINI_API_KEY")
	}
	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
