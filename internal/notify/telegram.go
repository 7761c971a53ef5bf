// Package notify delivers fired alerts. The Telegram sender is asynchronous
// and rate limited: the engine queues and moves on, a background worker
// spaces sends out to stay under Telegram's per-chat limits.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// Min interval between two Telegram messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

type queuedMessage struct {
	text     string
	ruleID   string
	matchID  string
	queuedAt time.Time
}

// TelegramNotifier sends alert messages to one chat, in queue order.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time

	queue     chan queuedMessage
	queueDone chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTelegramNotifier creates the notifier and verifies the bot token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("telegram bot handshake: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		bot:       bot,
		chatID:    chatID,
		queue:     make(chan queuedMessage, 100),
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	n.wg.Add(1)
	go n.messageSender()

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return n, nil
}

// Send queues one alert without blocking. A full queue drops the message
// with a log line; alert delivery is best effort by contract.
func (n *TelegramNotifier) Send(ctx context.Context, alert models.Alert) error {
	return n.enqueue(ctx, queuedMessage{
		text:     alert.Message,
		ruleID:   alert.RuleID,
		matchID:  alert.MatchID,
		queuedAt: time.Now(),
	})
}

// SendText queues a plain service message (startup/shutdown notices).
func (n *TelegramNotifier) SendText(ctx context.Context, text string) error {
	return n.enqueue(ctx, queuedMessage{text: text, queuedAt: time.Now()})
}

func (n *TelegramNotifier) enqueue(ctx context.Context, msg queuedMessage) error {
	select {
	case <-n.ctx.Done():
		return fmt.Errorf("notifier stopped")
	case <-ctx.Done():
		return ctx.Err()
	case n.queue <- msg:
		return nil
	default:
		slog.Warn("Telegram message queue is full, dropping message",
			"rule", msg.ruleID, "match", msg.matchID)
		return fmt.Errorf("message queue is full")
	}
}

// QueueLen returns the current queue depth (for logging).
func (n *TelegramNotifier) QueueLen() int {
	if n == nil || n.queue == nil {
		return 0
	}
	return len(n.queue)
}

// Stop drains the queue and waits for the sender to finish.
func (n *TelegramNotifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
	n.wg.Wait()
}

func (n *TelegramNotifier) messageSender() {
	defer n.wg.Done()

	for {
		select {
		case <-n.ctx.Done():
			// Drain remaining messages before exit.
			for {
				select {
				case msg := <-n.queue:
					n.send(msg)
				default:
					close(n.queueDone)
					return
				}
			}
		case msg := <-n.queue:
			n.send(msg)
		}
	}
}

func (n *TelegramNotifier) send(msg queuedMessage) {
	tgMsg := tgbotapi.NewMessage(n.chatID, msg.text)
	tgMsg.ParseMode = tgbotapi.ModeHTML

	n.mu.Lock()
	if elapsed := time.Since(n.lastSend); elapsed < telegramSendInterval {
		wait := telegramSendInterval - elapsed
		n.mu.Unlock()
		select {
		case <-n.ctx.Done():
			// Still send: Stop() wants the queue flushed, just without
			// the pacing delay.
		case <-time.After(wait):
		}
		n.mu.Lock()
	}
	n.lastSend = time.Now()
	_, err := n.bot.Send(tgMsg)
	n.mu.Unlock()

	if err != nil {
		slog.Error("Telegram send failed",
			"rule", msg.ruleID, "match", msg.matchID,
			"queued_for", time.Since(msg.queuedAt), "error", err)
		return
	}
	slog.Info("Telegram send ok",
		"rule", msg.ruleID, "match", msg.matchID,
		"queued_for", time.Since(msg.queuedAt), "queue_len", len(n.queue))
}
