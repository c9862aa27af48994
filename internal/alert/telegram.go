package alert

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Alerter receives operational notifications. Implementations are best
// effort; a failed alert never affects request handling.
type Alerter interface {
	QuotaExhausted(date string, limit int)
}

// TelegramAlerter posts to an admin chat. It sends the quota alert at
// most once per date per process.
type TelegramAlerter struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger

	mu       sync.Mutex
	lastDate string
}

func NewTelegramAlerter(token string, chatID int64, logger *zap.Logger) (*TelegramAlerter, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram alerter: %w", err)
	}
	return &TelegramAlerter{api: api, chatID: chatID, logger: logger}, nil
}

func (a *TelegramAlerter) QuotaExhausted(date string, limit int) {
	a.mu.Lock()
	if a.lastDate == date {
		a.mu.Unlock()
		return
	}
	a.lastDate = date
	a.mu.Unlock()

	text := fmt.Sprintf("AI navigation quota exhausted for %s (limit %d). Further searches are rejected until tomorrow.", date, limit)
	if _, err := a.api.Send(tgbotapi.NewMessage(a.chatID, text)); err != nil {
		a.logger.Error("Failed to send quota alert",
			zap.Error(err),
			zap.String("date", date))
	}
}
