package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/domain"
)

func (app *BotApp) handleVoice(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	fileID := msg.Voice.FileID
	log := app.log.With(zap.Int64("chat_id", chatID), zap.String("file_id", fileID))

	log.Info("[voice] start")

	data, err := app.fetch(ctx, fileID)
	if err != nil {
		log.Error("[voice] download failed", zap.Error(err))
		app.reply(chatID, "⚠️ Could not download the voice message.")
		return
	}

	p := app.pairFor(chatID)
	var uid string
	if msg.From != nil {
		uid = userID(msg.From.ID)
	}

	// голосовые телеграма - ogg/opus
	out := app.pipeline.Run(ctx, domain.PassRequest{
		SourceLanguage: p.source,
		TargetLanguage: p.target,
		UserID:         uid,
		Audio:          data,
		AudioExt:       ".ogg",
	})
	log.Info("[voice] pass finished", zap.String("pass_id", out.PassID), zap.String("state", string(out.State)))

	app.reply(chatID, outcomeText(out))

	if out.SpeechPath == "" {
		return
	}
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(out.SpeechPath))
	audio.Title = out.Target
	if _, err := app.api.Send(audio); err != nil {
		log.Warn("[voice] send audio failed", zap.Error(err))
	}
}
