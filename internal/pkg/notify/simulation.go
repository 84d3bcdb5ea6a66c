package notify

import (
	"context"
	"log/slog"

	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// Ensure SimulationNotifier implements Notifier
var _ Notifier = (*SimulationNotifier)(nil)

// SimulationNotifier logs what would be sent instead of calling Telegram.
// Used when the bot token is missing or still the config template value.
type SimulationNotifier struct{}

// NewSimulationNotifier creates a new simulation notifier.
func NewSimulationNotifier() *SimulationNotifier {
	slog.Info("Telegram notifier running in simulation mode, messages will only be logged")
	return &SimulationNotifier{}
}

// NotifyNewEvent logs the message that would have been delivered.
func (n *SimulationNotifier) NotifyNewEvent(_ context.Context, snap models.Snapshot) error {
	slog.Info("[simulate] Telegram notification", "market_id", snap.MarketID, "message", formatNewEventMessage(snap))
	return nil
}

// Stop is a no-op for the simulation notifier.
func (n *SimulationNotifier) Stop() {}
