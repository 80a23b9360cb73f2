package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/linguamate/internal/languages"
)

const (
	callbackFrom = "from:"
	callbackTo   = "to:"
)

// languageKeyboard - по два языка в ряд, data = prefix+label
func languageKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, l := range languages.All() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(l.Label, prefix+l.Label))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// parseCallback разбирает data кнопки языка.
func parseCallback(data string) (prefix, label string, ok bool) {
	for _, p := range []string{callbackFrom, callbackTo} {
		if strings.HasPrefix(data, p) {
			l, found := languages.Lookup(strings.TrimPrefix(data, p))
			if !found {
				return "", "", false
			}
			return p, l.Label, true
		}
	}
	return "", "", false
}
