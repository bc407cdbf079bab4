package persistence

import (
	"fmt"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/forecaster"
)

// NewStore builds the configured model-bundle store.
func NewStore(cfg *config.Config) (forecaster.Store, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		return NewFileStore(cfg.Storage.ModelPath), nil
	case "postgres":
		return NewPostgresStore(cfg.Database)
	case "s3":
		return NewObjectStore(cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
