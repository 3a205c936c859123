package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Offline   OfflineConfig
	Sync      SyncConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	AI        AIConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the remote document store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// OfflineConfig holds settings for the local badger store (offline cache,
// action queue and backup blob).
type OfflineConfig struct {
	Dir string
}

// SyncConfig holds the session and timing knobs of the remote sync layer.
type SyncConfig struct {
	UserID           string
	OptimisticWindow time.Duration
	ProbeSchedule    string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to interact with Google
// Sheets. Reporting export is disabled when either field is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// AIConfig holds settings for the advisory LLM provider.
type AIConfig struct {
	AnthropicKey string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	window, err := parseWindow(getenvWithDefault("SYNC_OPTIMISTIC_WINDOW_MS", "2000"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdwise"),
		},
		Offline: OfflineConfig{
			Dir: getenvWithDefault("OFFLINE_STORE_DIR", "./data/offline"),
		},
		Sync: SyncConfig{
			UserID:           os.Getenv("SYNC_USER_ID"),
			OptimisticWindow: window,
			ProbeSchedule:    getenvWithDefault("SYNC_PROBE_SCHEDULE", "@every 1m"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Johannesburg"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Offline.Dir == "" {
		return errors.New("OFFLINE_STORE_DIR must not be empty")
	}

	if c.Sync.UserID == "" {
		return errors.New("SYNC_USER_ID must be provided")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// Sheets and AI credentials are optional; the matching features switch
	// off when absent.
	return nil
}

// SheetsEnabled reports whether report export can run.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

func parseWindow(raw string) (time.Duration, error) {
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("SYNC_OPTIMISTIC_WINDOW_MS must be a non-negative integer, got %q", raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
