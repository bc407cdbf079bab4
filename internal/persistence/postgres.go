package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/forecaster"
)

const createBundleTable = `
CREATE TABLE IF NOT EXISTS model_bundles (
	sku        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists one row per SKU with the serialized model entry as
// a JSON payload.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(createBundleTable); err != nil {
		return nil, fmt.Errorf("ensure model_bundles table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (forecaster.Bundle, error) {
	rows := []struct {
		SKU     string `db:"sku"`
		Payload []byte `db:"payload"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT sku, payload FROM model_bundles`); err != nil {
		return nil, fmt.Errorf("load model bundles: %w", err)
	}

	bundle := make(forecaster.Bundle, len(rows))
	for _, row := range rows {
		var trained forecaster.TrainedModel
		if err := json.Unmarshal(row.Payload, &trained); err != nil {
			return nil, fmt.Errorf("decode model bundle for %s: %w", row.SKU, err)
		}
		bundle[row.SKU] = trained
	}
	return bundle, nil
}

// Save replaces the stored set in a single transaction, matching the
// bulk-save contract of training.
func (s *PostgresStore) Save(ctx context.Context, bundle forecaster.Bundle) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM model_bundles`); err != nil {
		return fmt.Errorf("clear model bundles: %w", err)
	}

	for sku, trained := range bundle {
		payload, err := json.Marshal(trained)
		if err != nil {
			return fmt.Errorf("encode model bundle for %s: %w", sku, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_bundles (sku, payload, updated_at) VALUES ($1, $2, now())`,
			sku, payload,
		); err != nil {
			return fmt.Errorf("insert model bundle for %s: %w", sku, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ forecaster.Store = (*PostgresStore)(nil)
