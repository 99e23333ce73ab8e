package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort          string
	DatabaseURL       string // empty selects the in-memory store
	OpenAIAPIKey      string // empty or placeholder triggers the no-credential fallback
	OpenAIBaseURL     string
	OpenAIModel       string
	CompletionTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
//
// A missing OPENAI_API_KEY is not fatal: the completion client degrades to its
// fixed no-credential message. A missing DATABASE_URL is not fatal either; the
// server falls back to the in-memory store.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
	}

	port := getEnv("HTTP_PORT", "8080")
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Println("DATABASE_URL not set; chat history will be kept in memory only.")
	}

	timeoutStr := getEnv("COMPLETION_TIMEOUT_SECONDS", "30")
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs <= 0 {
		log.Printf("Warning: Invalid COMPLETION_TIMEOUT_SECONDS '%s', using default 30s. Error: %v", timeoutStr, err)
		timeoutSecs = 30
	}

	cfg := &Config{
		HTTPPort:          port,
		DatabaseURL:       dbURL,
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o"),
		CompletionTimeout: time.Duration(timeoutSecs) * time.Second,
	}

	log.Printf("Loaded config: Port=%s, DB=%t, OpenAIKey=%t, Model=%s, CompletionTimeout=%s",
		cfg.HTTPPort, cfg.DatabaseURL != "", cfg.OpenAIAPIKey != "", cfg.OpenAIModel, cfg.CompletionTimeout)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
