package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the defaults of the global flags, read from the environment.
type Config struct {
	LedgerFile  string
	IndexersDir string
	QuotesFile  string
	LogLevel    string
	Tolerance   float64
}

// LoadConfig reads the configuration from environment variables, after loading
// a .env file from the working directory if there is one.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		LedgerFile:  getEnv("CARTEIRA_LEDGER", "transactions.jsonl"),
		IndexersDir: getEnv("CARTEIRA_INDEXERS", "indexers"),
		QuotesFile:  getEnv("CARTEIRA_QUOTES", "quotes.json"),
		LogLevel:    getEnv("CARTEIRA_LOG_LEVEL", "info"),
		Tolerance:   getEnvAsFloat("CARTEIRA_TOLERANCE", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
