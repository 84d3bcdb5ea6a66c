package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vodeneev/specialsbot/internal/pkg/config"
	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// Notifier delivers a message for each newly discovered event.
type Notifier interface {
	// NotifyNewEvent queues a notification for the snapshot. Delivery
	// failures are the notifier's problem: callers log the returned
	// error and move on.
	NotifyNewEvent(ctx context.Context, snap models.Snapshot) error

	// Stop drains pending messages and shuts the notifier down.
	Stop()
}

// placeholderToken is the config template value that keeps the bot in
// simulation mode.
const placeholderToken = "YOUR_BOT_TOKEN"

// New selects the notifier implementation from config. A missing or
// placeholder token short-circuits to simulation mode; a Telegram setup
// failure degrades to simulation mode instead of blocking the run.
func New(cfg *config.TelegramConfig) Notifier {
	if cfg.BotToken == "" || cfg.BotToken == placeholderToken {
		return NewSimulationNotifier()
	}
	n, err := NewTelegramNotifier(cfg.BotToken, cfg.ChatID)
	if err != nil {
		return NewSimulationNotifier()
	}
	return n
}

// formatNewEventMessage builds the Markdown alert for a new event.
func formatNewEventMessage(snap models.Snapshot) string {
	var builder strings.Builder
	builder.WriteString("🔥 *New Enhanced Special Found!* 🔥\n\n")
	builder.WriteString(fmt.Sprintf("*%s*\n", snap.Description))
	builder.WriteString(fmt.Sprintf("Time: %s\n", snap.EventTime))
	builder.WriteString(fmt.Sprintf("Back: %s (%s)\n", snap.BackPrice, snap.BackLiquidity))
	builder.WriteString(fmt.Sprintf("Lay: %s (%s)\n", snap.LayPrice, snap.LayLiquidity))
	builder.WriteString(fmt.Sprintf("Market ID: `%s`", snap.MarketID))
	return builder.String()
}
