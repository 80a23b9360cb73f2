package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (app *BotApp) handleCallback(_ context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	prefix, label, ok := parseCallback(cb.Data)
	if !ok {
		app.answer(cb.ID, "Unknown option")
		return
	}

	p := app.pairFor(chatID)
	if prefix == callbackFrom {
		p.source = label
	} else {
		p.target = label
	}
	app.setPair(chatID, p)

	app.answer(cb.ID, label)
	app.reply(chatID, pairText(p))
}

func (app *BotApp) answer(callbackID, text string) {
	if _, err := app.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		app.log.Warn("[callback] answer failed", zap.Error(err))
	}
}
