package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vodeneev/specialsbot/internal/pkg/config"
	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// Ensure RedisEventStorage implements EventStorage
var _ EventStorage = (*RedisEventStorage)(nil)

// upsertScript performs the insert-or-update classification server-side
// so the read and the write cannot interleave between clients.
// Returns 1 when the key was created, 0 when an existing record was updated.
var upsertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	redis.call("HSET", KEYS[1],
		"back_price", ARGV[3],
		"back_liquidity", ARGV[4],
		"lay_price", ARGV[5],
		"lay_liquidity", ARGV[6],
		"last_updated", ARGV[7])
	return 0
end
redis.call("HSET", KEYS[1],
	"event_time", ARGV[1],
	"description", ARGV[2],
	"back_price", ARGV[3],
	"back_liquidity", ARGV[4],
	"lay_price", ARGV[5],
	"lay_liquidity", ARGV[6],
	"first_seen", ARGV[7],
	"last_updated", ARGV[7])
return 1
`)

// RedisEventStorage stores one hash per market id under events:<market_id>.
type RedisEventStorage struct {
	client *redis.Client
}

// NewRedisEventStorage creates a new Redis storage for observed events.
func NewRedisEventStorage(cfg *config.RedisConfig) (*RedisEventStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Redis event storage initialized successfully")
	return &RedisEventStorage{client: client}, nil
}

// Upsert runs the classification script for the snapshot's key.
func (r *RedisEventStorage) Upsert(ctx context.Context, snap models.Snapshot, now time.Time) (models.Classification, error) {
	if !snap.Processable() {
		return models.ClassificationRejected, nil
	}

	key := fmt.Sprintf("events:%s", snap.MarketID)
	created, err := upsertScript.Run(ctx, r.client, []string{key},
		snap.EventTime, snap.Description,
		snap.BackPrice, snap.BackLiquidity, snap.LayPrice, snap.LayLiquidity,
		now.UTC().Format(time.RFC3339),
	).Int()
	if err != nil {
		return models.ClassificationRejected, fmt.Errorf("failed to upsert event %s: %w", snap.MarketID, err)
	}

	if created == 1 {
		return models.ClassificationNew, nil
	}
	return models.ClassificationUpdated, nil
}

// Close closes connection to Redis.
func (r *RedisEventStorage) Close() error {
	return r.client.Close()
}
