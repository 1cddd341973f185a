package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/statement-import/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or parent
// directory, once per process. Variables already set are not overridden.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		loadEnvFile(logger)
	})
}

// envCandidates are the .env files tried in order; the first one present wins.
var envCandidates = []string{".env", filepath.Join("..", ".env")}

func loadEnvFile(logger logging.Logger) string {
	if logger == nil {
		logger = logging.Default()
	}
	for _, path := range envCandidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, path))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, path))
		return path
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}

// GetEnv returns the variable named key, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// NewLogger builds the logging adapter described by the config.
func NewLogger(cfg *Config) logging.Logger {
	if cfg == nil {
		return logging.Default()
	}
	return logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
}
