package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendBlob   = "blob"
	BackendMemory = "memory"
)

type Config struct {
	Data      DataConfig      `json:"data"`
	Server    ServerConfig    `json:"server"`
	LogSink   LogSinkConfig   `json:"logsink"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// DataConfig says where the category and recipe files live. It is built once
// at startup and handed to the stores.
type DataConfig struct {
	Backend        string `json:"backend"` // "file", "blob" or "memory"
	Dir            string `json:"dir"`
	Container      string `json:"container"`
	AccountName    string `json:"account_name"`
	AccountKey     string `json:"-"`
	CategoriesFile string `json:"categories_file"`
	RecipesFile    string `json:"recipes_file"`
	// AgeIdentity, when set, encrypts both files at rest.
	AgeIdentity string `json:"-"`
}

type ServerConfig struct {
	Addr            string        `json:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type LogSinkConfig struct {
	AccountName string        `json:"account_name"`
	AccountKey  string        `json:"-"`
	Container   string        `json:"container"`
	BlobName    string        `json:"blob_name"`
	FlushEvery  time.Duration `json:"flush_every"`
}

// TelemetryConfig turns on OTLP export of traces and logs. The exporters read
// the remaining OTEL_* variables themselves.
type TelemetryConfig struct {
	Endpoint    string `json:"endpoint"`
	ServiceName string `json:"service_name"`
}

func (t TelemetryConfig) Enabled() bool {
	return t.Endpoint != ""
}

func (l LogSinkConfig) Enabled() bool {
	return l.AccountName != "" && l.AccountKey != "" && l.Container != ""
}

// Load reads configuration from the environment, after merging in a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	shutdown, err := time.ParseDuration(getEnvOrDefault("SHUTDOWN_TIMEOUT", "25s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	flush, err := time.ParseDuration(getEnvOrDefault("LOGSINK_FLUSH_EVERY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGSINK_FLUSH_EVERY: %w", err)
	}

	config := &Config{
		Data: DataConfig{
			Backend:        strings.ToLower(getEnvOrDefault("DATA_BACKEND", BackendFile)),
			Dir:            getEnvOrDefault("DATA_DIR", "."),
			Container:      getEnvOrDefault("DATA_CONTAINER", "rezeptbox"),
			AccountName:    os.Getenv("AZURE_STORAGE_ACCOUNT_NAME"),
			AccountKey:     os.Getenv("AZURE_STORAGE_PRIMARY_ACCOUNT_KEY"),
			CategoriesFile: getEnvOrDefault("CATEGORIES_FILE", "categories.json"),
			RecipesFile:    getEnvOrDefault("RECIPES_FILE", "rezepte.csv"),
			AgeIdentity:    os.Getenv("DATA_AGE_IDENTITY"),
		},
		Server: ServerConfig{
			Addr:            getEnvOrDefault("ADDR", ":8080"),
			ShutdownTimeout: shutdown,
		},
		LogSink: LogSinkConfig{
			AccountName: os.Getenv("LOGSINK_ACCOUNT_NAME"),
			AccountKey:  os.Getenv("LOGSINK_ACCOUNT_KEY"),
			Container:   os.Getenv("LOGSINK_CONTAINER"),
			BlobName:    os.Getenv("LOGSINK_BLOB_NAME"),
			FlushEvery:  flush,
		},
		Telemetry: TelemetryConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: getEnvOrDefault("OTEL_SERVICE_NAME", "rezeptbox"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Data.Backend {
	case BackendFile, BackendMemory:
	case BackendBlob:
		if c.Data.AccountName == "" {
			return errors.New("AZURE_STORAGE_ACCOUNT_NAME is required for the blob backend")
		}
	default:
		return fmt.Errorf("unknown DATA_BACKEND %q", c.Data.Backend)
	}
	if c.Data.CategoriesFile == "" || c.Data.RecipesFile == "" {
		return errors.New("CATEGORIES_FILE and RECIPES_FILE must not be empty")
	}
	if c.Data.AgeIdentity != "" && !strings.HasPrefix(c.Data.AgeIdentity, "AGE-SECRET-KEY-") {
		return errors.New("DATA_AGE_IDENTITY must be an age X25519 secret key")
	}
	if c.Data.CategoriesFile == c.Data.RecipesFile {
		return errors.New("categories and recipes cannot share a file")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
