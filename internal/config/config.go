package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider   string // "gemini" (default) or "openai"
	LLMModel      string // empty means the provider's default
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	DatabaseURL   string
	HTTPPort      string
	LogLevel      string
	TTSAPIURL     string
	TTSAPIKey     string
}

func Load() Config {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
		LLMModel:      getEnv("LLM_MODEL", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		DatabaseURL:   getEnv("DATABASE_URL", "anime_chatbot.db"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		TTSAPIURL:     getEnv("TTS_API_URL", ""),
		TTSAPIKey:     getEnv("TTS_API_KEY", ""),
	}

	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatal("OPENAI_API_KEY environment variable is required when LLM_PROVIDER=openai")
		}
	default:
		if cfg.GeminiAPIKey == "" {
			log.Fatal("GEMINI_API_KEY environment variable is required")
		}
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
