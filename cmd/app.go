package main

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/ai"
	"github.com/Vovarama1992/linguamate/internal/config"
	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/error_notificator"
	"github.com/Vovarama1992/linguamate/internal/infra"
	"github.com/Vovarama1992/linguamate/internal/ports"
	"github.com/Vovarama1992/linguamate/internal/speech"
)

// app - собранные зависимости одного запуска.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	zl   *logger.ZapLogger
	deps domain.PipelineDeps

	recordings *domain.RecordingService
	closers    []func() error
}

func newApp(ctx context.Context) (_ *app, err error) {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	baseLogger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a := &app{
		cfg: cfg,
		log: baseLogger,
		zl:  logger.NewZapLogger(baseLogger.Sugar()),
	}

	// =========================================================================
	// DB INIT
	// =========================================================================

	dialect := infra.Dialect(cfg.DBDriver)
	db, err := infra.OpenDB(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	defer func() {
		if err != nil {
			err = multierr.Append(err, a.Close())
		}
	}()

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var errInfra error_notificator.Notificator = error_notificator.NewLogInfra(baseLogger)
	if cfg.TelegramToken != "" {
		tg, err := error_notificator.NewTelegramInfra(cfg.TelegramToken, cfg.AdminChatIDs, baseLogger)
		if err != nil {
			baseLogger.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			errInfra = tg
		}
	}
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// STORE
	// =========================================================================

	a.recordings = domain.NewRecordingService(
		infra.NewRecordingRepo(db, dialect),
		errService,
		baseLogger,
	)
	if err := a.recordings.CreateSchema(ctx); err != nil {
		return nil, err
	}

	// =========================================================================
	// CLIENTS (STT / TRANSLATION / TTS)
	// =========================================================================

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)

	var stt speech.STTClient = openAIClient // Whisper
	if cfg.STTProvider == "deepgram" {
		stt = ai.NewDeepgramClient(cfg.DeepgramKey)
	}

	var tts speech.TTSClient = speech.NewElevenLabsClient(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)
	if cfg.TTSProvider == "openai" {
		tts = speech.NewOpenAITTS(openAIClient)
	}

	speechService := speech.NewService(stt, tts)

	// =========================================================================
	// AUDIO ARCHIVE (optional)
	// =========================================================================

	var archive ports.S3Service
	if cfg.S3.Enabled() {
		s3Client, err := infra.NewS3Client(ctx, cfg.S3)
		if err != nil {
			baseLogger.Warn("audio archive disabled", zap.Error(err))
		} else {
			archive = domain.NewS3Service(s3Client)
		}
	}

	a.deps = domain.PipelineDeps{
		Transcriber: speechService,
		Translator:  ai.NewTranslator(openAIClient),
		Synthesizer: speechService,
		Store:       a.recordings,
		Archive:     archive,
		Notifier:    errService,
	}
	return a, nil
}

func (a *app) pipeline(rec domain.Recorder) *domain.Pipeline {
	deps := a.deps
	deps.Recorder = rec
	return domain.NewPipeline(deps, domain.PipelineConfig{
		RecordingsDir:  a.cfg.RecordingsDir,
		Calibration:    a.cfg.Calibration,
		ListenTimeout:  a.cfg.ListenTimeout,
		PersistPartial: a.cfg.PersistPartial,
		DefaultUser:    a.cfg.DefaultUser,
	}, a.log)
}

// dbFile - путь к файлу sqlite для статистики, пусто для postgres.
func (a *app) dbFile() string {
	if a.cfg.DBDriver != "sqlite" {
		return ""
	}
	return a.cfg.DatabaseURL
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	_ = a.log.Sync()
	return err
}
