package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/ports"
)

// maxVoiceBytes - голосовые длиннее не качаем
const maxVoiceBytes = 20 << 20

type PassRunner interface {
	Run(ctx context.Context, req domain.PassRequest) domain.Outcome
}

type History interface {
	GetUserRecordings(ctx context.Context, userID string, limit int) ([]ports.Recording, error)
	GetUserStats(ctx context.Context, userID string) (*ports.UserStats, error)
}

// sender - часть tgbotapi.BotAPI, нужная обработчикам.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// pair - языки перевода одного чата
type pair struct {
	source string
	target string
}

var defaultPair = pair{source: "English", target: "Spanish"}

type BotApp struct {
	bot      *tgbotapi.BotAPI
	api      sender
	pipeline PassRunner
	history  History
	log      *zap.Logger

	// fetch скачивает голосовое по file id
	fetch func(ctx context.Context, fileID string) ([]byte, error)

	mu    sync.Mutex
	pairs map[int64]pair
}

func NewBotApp(token string, pipeline PassRunner, history History, log *zap.Logger) (*BotApp, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	app := newBotApp(bot, pipeline, history, log)
	app.bot = bot
	app.fetch = app.download
	return app, nil
}

func newBotApp(api sender, pipeline PassRunner, history History, log *zap.Logger) *BotApp {
	return &BotApp{
		api:      api,
		pipeline: pipeline,
		history:  history,
		log:      log,
		pairs:    make(map[int64]pair),
	}
}

// Run - главный цикл получения апдейтов, до отмены ctx.
func (app *BotApp) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := app.bot.GetUpdatesChan(u)
	app.log.Info("[bot_loop] started", zap.String("username", app.bot.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			app.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			app.dispatchUpdate(ctx, update)
		}
	}
}

func (app *BotApp) dispatchUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		app.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		app.handleCallback(ctx, update.CallbackQuery)
	}
}

func (app *BotApp) pairFor(chatID int64) pair {
	app.mu.Lock()
	defer app.mu.Unlock()
	if p, ok := app.pairs[chatID]; ok {
		return p
	}
	return defaultPair
}

func (app *BotApp) setPair(chatID int64, p pair) {
	app.mu.Lock()
	app.pairs[chatID] = p
	app.mu.Unlock()
}

func (app *BotApp) reply(chatID int64, text string) {
	if _, err := app.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		app.log.Warn("[bot] send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (app *BotApp) download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := app.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, file.Link(app.bot.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
}

func userID(tgID int64) string {
	return fmt.Sprintf("tg:%d", tgID)
}
