package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderMock   Provider = "mock"
)

type Config struct {
	Port string

	Provider  Provider
	ModelName string
	MaxTokens int

	// Process-wide completion credential. Optional: a session may carry its
	// own key instead. Never logged.
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads the env vars, optionally from a .env file, and builds the config.
func Load() *Config {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	var provider Provider
	switch getEnv("QUIP_PROVIDER", "openai") {
	case "gemini":
		provider = ProviderGemini
	case "mock":
		provider = ProviderMock
	default:
		provider = ProviderOpenAI
	}

	return &Config{
		Port: getEnv("QUIP_PORT", "8080"),

		Provider:  provider,
		ModelName: getEnv("QUIP_MODEL_NAME", "gpt-4"),
		MaxTokens: getIntEnv("QUIP_MAX_TOKENS", 400),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
	}
}
