package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramInfra шлёт ошибки админам через бота.
type TelegramInfra struct {
	bot    *tgbotapi.BotAPI
	admins []int64
	log    *zap.Logger
}

func NewTelegramInfra(token string, admins []int64, log *zap.Logger) (*TelegramInfra, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramInfra{bot: bot, admins: admins, log: log}, nil
}

func (i *TelegramInfra) Notify(ctx context.Context, err error, details string) error {
	text := fmt.Sprintf(
		"❗ linguamate error\n\nError: %v\n\nDetails: %s",
		err,
		details,
	)

	for _, chatID := range i.admins {
		if _, sendErr := i.bot.Send(tgbotapi.NewMessage(chatID, text)); sendErr != nil {
			i.log.Warn("[error_notificator] send fail", zap.Int64("chat_id", chatID), zap.Error(sendErr))
			return sendErr
		}
	}
	return nil
}

// LogInfra - без телеграма, только лог.
type LogInfra struct {
	log *zap.Logger
}

func NewLogInfra(log *zap.Logger) *LogInfra {
	return &LogInfra{log: log}
}

func (i *LogInfra) Notify(_ context.Context, err error, details string) error {
	i.log.Error("[error_notificator] "+details, zap.Error(err))
	return nil
}
