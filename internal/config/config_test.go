package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"DATA_BACKEND", "DATA_DIR", "CATEGORIES_FILE", "RECIPES_FILE", "ADDR", "SHUTDOWN_TIMEOUT", "LOGSINK_ACCOUNT_NAME", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "DATA_AGE_IDENTITY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Data.Backend)
	assert.Equal(t, "categories.json", cfg.Data.CategoriesFile)
	assert.Equal(t, "rezepte.csv", cfg.Data.RecipesFile)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 25*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.LogSink.Enabled())
	assert.False(t, cfg.Telemetry.Enabled())
	assert.Equal(t, "rezeptbox", cfg.Telemetry.ServiceName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_BACKEND", "Memory")
	t.Setenv("RECIPES_FILE", "recipes.csv")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Data.Backend)
	assert.Equal(t, "recipes.csv", cfg.Data.RecipesFile)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Data: DataConfig{Backend: BackendFile, CategoriesFile: "c.json", RecipesFile: "r.csv"}}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Data.Backend = "s3"
	assert.ErrorContains(t, c.Validate(), "unknown DATA_BACKEND")

	c = base()
	c.Data.Backend = BackendBlob
	assert.ErrorContains(t, c.Validate(), "AZURE_STORAGE_ACCOUNT_NAME")

	c = base()
	c.Data.RecipesFile = c.Data.CategoriesFile
	assert.Error(t, c.Validate())

	c = base()
	c.Data.AgeIdentity = "age1notasecret"
	assert.ErrorContains(t, c.Validate(), "DATA_AGE_IDENTITY")
}
