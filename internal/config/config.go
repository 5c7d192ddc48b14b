package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rfm-dash/internal/ingest"
)

// DefaultReferenceDate is the fixed "now" used for recency and time-range
// filtering when REFERENCE_DATE is not set. A fixed reference keeps filtered
// views reproducible independent of when the tool runs.
const DefaultReferenceDate = "2025-10-04"

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath     string
	LogDir       string
	SnapshotDir  string
	ReferenceNow time.Time
	TimeRange    string
	ServeAddr    string
	OpenBrowser  bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Binary directory first, then working directory for go run / development.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	snapshotDir := filepath.Join(dataPath, "snapshots")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", snapshotDir).Msg("Failed to create snapshot directory")
	}

	refDate := getEnv("REFERENCE_DATE", DefaultReferenceDate)
	referenceNow, err := time.Parse(ingest.DateLayout, refDate)
	if err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_DATE %q: %w", refDate, err)
	}

	cfg := &AppConfig{
		DataPath:     dataPath,
		LogDir:       logDir,
		SnapshotDir:  snapshotDir,
		ReferenceNow: referenceNow,
		TimeRange:    getEnv("TIME_RANGE", "30d"),
		ServeAddr:    getEnv("SERVE_ADDR", "127.0.0.1:8417"),
		OpenBrowser:  getEnvBool("OPEN_BROWSER", true),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
