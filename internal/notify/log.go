package notify

import (
	"context"
	"log/slog"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

// LogNotifier writes alerts to the log instead of a chat. Used when no
// Telegram token is configured, so the engine can run dry.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Send(_ context.Context, alert models.Alert) error {
	slog.Info("ALERT",
		"rule", alert.RuleID,
		"match", alert.MatchID,
		"match_name", alert.MatchName,
		"competition", alert.Competition,
		"message", alert.Message)
	return nil
}

func (n *LogNotifier) SendText(_ context.Context, text string) error {
	slog.Info("NOTICE", "message", text)
	return nil
}

func (n *LogNotifier) Stop() {}
