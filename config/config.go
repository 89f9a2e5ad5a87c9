// api/config/config.go
package config

import (
	"os"
	"strconv"
)

// Storage drivers selectable via STORAGE_DRIVER. "none" is the
// edge-style deployment where persistence is unavailable and tracking
// degrades to acknowledgements.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

type Config struct {
	Port           string
	OpenAIAPIKey   string
	AdminPassword  string
	FrontendOrigin string

	StorageDriver string
	DatabaseURL   string
	SQLitePath    string

	// Sessions older than this many days are pruned at startup.
	// Zero disables pruning.
	RetentionDays int
}

// Load reads configuration from the environment. Call after
// godotenv.Load so a local .env file is honored.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		FrontendOrigin: os.Getenv("FE_ORIGIN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/sessions.db"),
		RetentionDays:  getEnvInt("SESSION_RETENTION_DAYS", 180),
	}

	cfg.StorageDriver = os.Getenv("STORAGE_DRIVER")
	if cfg.StorageDriver == "" {
		if cfg.DatabaseURL != "" {
			cfg.StorageDriver = DriverPostgres
		} else {
			cfg.StorageDriver = DriverSQLite
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
