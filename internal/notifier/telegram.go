package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"supplier-verify/internal/config"
	"supplier-verify/internal/models"
)

// TelegramNotifier posts rejected-supplier alerts to a review chat. It is
// one-way: nothing in the interview flow depends on delivery.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates the notifier, or (nil, nil) when notifications
// are disabled in config.
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		logger.Info("Telegram notifications are disabled (notifications.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Notifications.ReviewChatID,
		logger: logger,
	}, nil
}

// NotifyRejected sends a rejection alert. Failures are logged and dropped.
func (n *TelegramNotifier) NotifyRejected(record *models.VerificationRecord) {
	if n == nil {
		return
	}

	text := fmt.Sprintf(
		"🚫 Supplier rejected\n\nSupplier: %s\nTrust score: %d\nRecord: #%d",
		record.SupplierName, record.TrustScore, record.ID)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("Failed to send rejection notification",
			zap.Int64("record_id", record.ID),
			zap.Error(err))
	}
}
