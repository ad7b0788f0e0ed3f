package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"smsguard/internal/config"
)

// TelegramNotifier pushes operational alerts (feedback corrections, log
// clears) to a Telegram chat. Purely outbound; it reads no updates.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates a notifier, or (nil, nil) when disabled.
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Notifier.ChatID,
		logger: logger,
	}, nil
}

// FeedbackReceived alerts about a user correction on a logged prediction.
func (n *TelegramNotifier) FeedbackReceived(logID int64, feedback string) {
	n.send(fmt.Sprintf("Feedback %q received for prediction log #%d", feedback, logID))
}

// LogsCleared alerts that the prediction log table was wiped.
func (n *TelegramNotifier) LogsCleared() {
	n.send("All prediction logs were cleared")
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send Telegram notification", zap.Error(err))
	}
}
