package storage

import (
	"context"
	"time"

	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// EventStorage persists the latest snapshot per market id and classifies
// each observation as new or updated.
type EventStorage interface {
	// Upsert stores the snapshot atomically with respect to its market id.
	// Returns ClassificationRejected (with no mutation) when the snapshot
	// carries no usable market id, ClassificationNew on first observation,
	// ClassificationUpdated otherwise. On update only the price/liquidity
	// fields and last_updated change; description, event_time and
	// first_seen keep their original values.
	Upsert(ctx context.Context, snap models.Snapshot, now time.Time) (models.Classification, error)

	// Close closes the underlying connection.
	Close() error
}
