package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort           string
	DatabaseURL        string // empty selects the in-memory store (dev mode)
	DocsPath           string
	HistoryLimit       int
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment variables only.")
	}

	port := getEnv("HTTP_PORT", "8080")
	dbURL := getEnv("DATABASE_URL", "")
	docsPath := getEnv("DOCS_PATH", "docs.json")

	historyStr := getEnv("CHAT_HISTORY_LIMIT", "10")
	historyLimit, err := strconv.Atoi(historyStr)
	if err != nil || historyLimit <= 0 {
		log.Printf("Warning: Invalid CHAT_HISTORY_LIMIT '%s', using default 10.", historyStr)
		historyLimit = 10
	}

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := &Config{
		HTTPPort:           port,
		DatabaseURL:        dbURL,
		DocsPath:           docsPath,
		HistoryLimit:       historyLimit,
		CORSAllowedOrigins: origins,
	}

	log.Printf("Loaded config: Port=%s, DocsPath=%s, HistoryLimit=%d", cfg.HTTPPort, cfg.DocsPath, cfg.HistoryLimit)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
