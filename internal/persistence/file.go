// Package persistence provides the model-bundle stores. A bundle is the
// full trained model set keyed by SKU; the serialized format is JSON and is
// owned by this package alone.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stocksight/trendwise/internal/forecaster"
)

// FileStore persists the bundle as a single JSON file on local disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted bundle. A missing file is not an error; it means
// no models have been trained yet.
func (s *FileStore) Load(ctx context.Context) (forecaster.Bundle, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(forecaster.Bundle), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model bundle: %w", err)
	}

	var bundle forecaster.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode model bundle: %w", err)
	}
	return bundle, nil
}

// Save writes the bundle atomically via a temp file rename.
func (s *FileStore) Save(ctx context.Context, bundle forecaster.Bundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model bundle: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model bundle: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace model bundle: %w", err)
	}
	return nil
}

var _ forecaster.Store = (*FileStore)(nil)
