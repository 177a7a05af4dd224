package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI (primary provider)
	GeminiAPIKey string
	GeminiModel  string

	// AIML (fallback provider, OpenAI-compatible)
	AIMLAPIKey string
	AIMLAPIURL string
	AIMLModel  string

	// Per-provider request budget
	AIRequestTimeoutSec int

	// Rate limiting for the AI endpoints
	RateLimitPerMin int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:        mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		AIMLAPIKey:          getEnvOrDefault("AIML_API_KEY", ""),
		AIMLAPIURL:          getEnvOrDefault("AIML_API_URL", "https://api.aimlapi.com/v1"),
		AIMLModel:           getEnvOrDefault("AIML_MODEL", "gpt-4o"),
		AIRequestTimeoutSec: getEnvAsIntOrDefault("AI_REQUEST_TIMEOUT_SECONDS", 60),
		RateLimitPerMin:     getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
