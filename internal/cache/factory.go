package cache

import (
	"fmt"
	"log/slog"

	"rezeptbox/internal/config"
)

// FromConfig builds the backend named by cfg.Backend, sealed with age when an
// identity is configured.
func FromConfig(cfg config.DataConfig) (Cache, error) {
	c, err := backend(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AgeIdentity == "" {
		return c, nil
	}
	slog.Info("encrypting data files at rest")
	return NewEncryptedCache(c, cfg.AgeIdentity)
}

func backend(cfg config.DataConfig) (Cache, error) {
	switch cfg.Backend {
	case config.BackendBlob:
		slog.Info("using Azure Blob Storage for data", "account", cfg.AccountName, "container", cfg.Container)
		return NewBlobCache(cfg.AccountName, cfg.AccountKey, cfg.Container)
	case config.BackendMemory:
		slog.Warn("using in-memory data backend, nothing will be persisted")
		return NewInMemoryCache(), nil
	case config.BackendFile, "":
		slog.Info("using local files for data", "dir", cfg.Dir)
		return NewFileCache(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Backend)
	}
}
