package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/specialsbot/internal/pkg/extract"
	"github.com/Vodeneev/specialsbot/internal/pkg/models"
	"github.com/Vodeneev/specialsbot/internal/pkg/notify"
	"github.com/Vodeneev/specialsbot/internal/pkg/storage"
)

// Result is the outcome of reconciling one raw field bag.
type Result struct {
	Snapshot       models.Snapshot
	Classification models.Classification
	// Err is set when the store failed for this bag; the snapshot was
	// not persisted and the classification is ClassificationRejected.
	Err error
}

// Engine reconciles batches of raw field bags against the event store
// and notifies once per newly discovered market id.
type Engine struct {
	store    storage.EventStorage
	notifier notify.Notifier
	now      func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(store storage.EventStorage, notifier notify.Notifier) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Reconcile processes the bags in order. Each bag fails independently:
// a store error for one record never stops the rest of the batch, and a
// notification failure never changes a record's classification.
func (e *Engine) Reconcile(ctx context.Context, bags []models.FieldBag) []Result {
	results := make([]Result, 0, len(bags))
	for _, bag := range bags {
		results = append(results, e.reconcileOne(ctx, bag))
	}
	return results
}

func (e *Engine) reconcileOne(ctx context.Context, bag models.FieldBag) Result {
	snap := extract.Normalize(bag)

	classification, err := e.store.Upsert(ctx, snap, e.now())
	if err != nil {
		slog.Error("Failed to persist event", "market_id", snap.MarketID, "error", err)
		return Result{Snapshot: snap, Classification: models.ClassificationRejected, Err: err}
	}

	switch classification {
	case models.ClassificationRejected:
		slog.Warn("Skipping event without market id", "description", snap.Description)
	case models.ClassificationNew:
		slog.Info("New event detected", "market_id", snap.MarketID, "description", snap.Description)
		if err := e.notifier.NotifyNewEvent(ctx, snap); err != nil {
			slog.Error("Failed to send notification", "market_id", snap.MarketID, "error", err)
		}
	}

	return Result{Snapshot: snap, Classification: classification}
}
