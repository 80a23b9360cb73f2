package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/languages"
)

const historyShown = 5

const helpText = `Send me a voice message and I will translate it.

/from – choose the language you speak
/to – choose the language to translate into
/swap – swap the two languages
/history – your last translations
/stats – your translation counter`

func (app *BotApp) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	var uid string
	if msg.From != nil {
		uid = userID(msg.From.ID)
	}

	if msg.Voice != nil {
		app.handleVoice(ctx, msg)
		return
	}
	if !msg.IsCommand() {
		app.reply(chatID, helpText)
		return
	}

	switch msg.Command() {
	case "start", "help":
		app.reply(chatID, helpText+"\n\n"+pairText(app.pairFor(chatID)))

	case "from", "to":
		prefix := callbackFrom
		if msg.Command() == "to" {
			prefix = callbackTo
		}
		// /from Spanish - без клавиатуры
		if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
			l, ok := languages.Lookup(arg)
			if !ok {
				app.reply(chatID, "Unsupported language: "+arg)
				return
			}
			p := app.pairFor(chatID)
			if prefix == callbackFrom {
				p.source = l.Label
			} else {
				p.target = l.Label
			}
			app.setPair(chatID, p)
			app.reply(chatID, pairText(p))
			return
		}
		m := tgbotapi.NewMessage(chatID, "Choose a language:")
		m.ReplyMarkup = languageKeyboard(prefix)
		if _, err := app.api.Send(m); err != nil {
			app.log.Warn("[text] send keyboard failed", zap.Error(err))
		}

	case "swap":
		p := app.pairFor(chatID)
		p.source, p.target = p.target, p.source
		app.setPair(chatID, p)
		app.reply(chatID, pairText(p))

	case "history":
		recs, err := app.history.GetUserRecordings(ctx, uid, historyShown)
		if err != nil {
			app.log.Error("[text] history failed", zap.Error(err))
			app.reply(chatID, "⚠️ History is unavailable right now.")
			return
		}
		app.reply(chatID, historyText(recs))

	case "stats":
		st, err := app.history.GetUserStats(ctx, uid)
		if err != nil {
			app.log.Error("[text] stats failed", zap.Error(err))
			app.reply(chatID, "⚠️ Stats are unavailable right now.")
			return
		}
		app.reply(chatID, statsText(st))

	default:
		app.reply(chatID, helpText)
	}
}
