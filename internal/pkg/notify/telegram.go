package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// Ensure TelegramNotifier implements Notifier
var _ Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier sends alerts for newly discovered events through a
// background worker with rate limiting.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	lastSend time.Time

	queue     chan models.Snapshot
	queueDone chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTelegramNotifier creates a new Telegram notifier.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot.Debug = false

	// Test bot connection
	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	notifier := &TelegramNotifier{
		bot:       bot,
		chatID:    chatID,
		queue:     make(chan models.Snapshot, 100), // Buffer up to 100 messages
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	notifier.wg.Add(1)
	go notifier.messageSender()

	slog.Info("Telegram notifier initialized", "chat_id", chatID)

	return notifier, nil
}

// NotifyNewEvent queues an alert for a newly discovered event (non-blocking).
func (n *TelegramNotifier) NotifyNewEvent(ctx context.Context, snap models.Snapshot) error {
	if n == nil || n.bot == nil {
		return fmt.Errorf("telegram notifier not initialized")
	}

	select {
	case <-n.ctx.Done():
		return fmt.Errorf("notifier stopped")
	case <-ctx.Done():
		return ctx.Err()
	case n.queue <- snap:
		return nil
	default:
		// Queue is full, log warning but don't block
		slog.Warn("Telegram message queue is full, dropping message", "market_id", snap.MarketID)
		return fmt.Errorf("message queue is full")
	}
}

// messageSender runs in background and sends queued messages with proper intervals.
func (n *TelegramNotifier) messageSender() {
	defer n.wg.Done()

	for {
		select {
		case <-n.ctx.Done():
			// Drain remaining messages before exit
			for {
				select {
				case snap := <-n.queue:
					n.send(snap)
				default:
					close(n.queueDone)
					return
				}
			}
		case snap := <-n.queue:
			n.send(snap)
		}
	}
}

func (n *TelegramNotifier) send(snap models.Snapshot) {
	if elapsed := time.Since(n.lastSend); elapsed < telegramSendInterval {
		time.Sleep(telegramSendInterval - elapsed)
	}

	msg := tgbotapi.NewMessage(n.chatID, formatNewEventMessage(snap))
	msg.ParseMode = tgbotapi.ModeMarkdown

	n.lastSend = time.Now()
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Telegram send: failed", "error", err, "market_id", snap.MarketID)
		return
	}
	slog.Info("Telegram send: success", "market_id", snap.MarketID, "queue_length", len(n.queue))
}

// Stop stops the notifier and waits for all queued messages to be sent.
func (n *TelegramNotifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
	n.wg.Wait()
}
