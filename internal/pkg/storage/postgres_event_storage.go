package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/specialsbot/internal/pkg/config"
	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// Ensure PostgresEventStorage implements EventStorage
var _ EventStorage = (*PostgresEventStorage)(nil)

// PostgresEventStorage stores one row per market id in the events table.
type PostgresEventStorage struct {
	db *sql.DB
}

// NewPostgresEventStorage creates a new PostgreSQL storage for observed events.
func NewPostgresEventStorage(cfg *config.PostgresConfig) (*PostgresEventStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresEventStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL event storage initialized successfully")
	return s, nil
}

func (s *PostgresEventStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS events (
		market_id TEXT PRIMARY KEY,
		event_time TEXT NOT NULL,
		description TEXT NOT NULL,
		back_price TEXT NOT NULL,
		back_liquidity TEXT NOT NULL,
		lay_price TEXT NOT NULL,
		lay_liquidity TEXT NOT NULL,
		first_seen TIMESTAMPTZ NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Upsert inserts or refreshes the row for snap.MarketID in a single
// statement, so concurrent upserts for the same id cannot interleave.
// The update branch deliberately leaves description, event_time and
// first_seen untouched: they record the original observation.
func (s *PostgresEventStorage) Upsert(ctx context.Context, snap models.Snapshot, now time.Time) (models.Classification, error) {
	if !snap.Processable() {
		return models.ClassificationRejected, nil
	}

	query := `
	INSERT INTO events (
		market_id, event_time, description,
		back_price, back_liquidity, lay_price, lay_liquidity,
		first_seen, last_updated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT (market_id) DO UPDATE SET
		back_price = EXCLUDED.back_price,
		back_liquidity = EXCLUDED.back_liquidity,
		lay_price = EXCLUDED.lay_price,
		lay_liquidity = EXCLUDED.lay_liquidity,
		last_updated = EXCLUDED.last_updated
	RETURNING (xmax = 0)
	`

	// xmax = 0 holds only for freshly inserted rows.
	var inserted bool
	err := s.db.QueryRowContext(ctx, query,
		snap.MarketID, snap.EventTime, snap.Description,
		snap.BackPrice, snap.BackLiquidity, snap.LayPrice, snap.LayLiquidity,
		now,
	).Scan(&inserted)
	if err != nil {
		return models.ClassificationRejected, fmt.Errorf("failed to upsert event %s: %w", snap.MarketID, err)
	}

	if inserted {
		return models.ClassificationNew, nil
	}
	return models.ClassificationUpdated, nil
}

// Close closes the database connection.
func (s *PostgresEventStorage) Close() error {
	return s.db.Close()
}
