package domain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/error_notificator"
	"github.com/Vovarama1992/linguamate/internal/ports"
	"github.com/Vovarama1992/linguamate/internal/scoring"
)

// StorageWriteError is a soft failure: the write was logged and reported but
// the pass goes on.
type StorageWriteError struct {
	Op  string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write (%s): %v", e.Op, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// WriteResult - итог мягкой записи.
type WriteResult struct {
	Err *StorageWriteError
}

func (r WriteResult) OK() bool { return r.Err == nil }

func writeFailed(op string, err error) WriteResult {
	return WriteResult{Err: &StorageWriteError{Op: op, Err: err}}
}

// RecordingService - хранилище записей поверх репозитория. Ошибки записи
// логируются, уходят в нотификатор и наружу не пробрасываются.
type RecordingService struct {
	repo     ports.RecordingRepo
	notifier error_notificator.Notificator
	log      *zap.Logger
}

func NewRecordingService(repo ports.RecordingRepo, n error_notificator.Notificator, log *zap.Logger) *RecordingService {
	return &RecordingService{
		repo:     repo,
		notifier: n,
		log:      log,
	}
}

// CreateSchema - единственная жёсткая ошибка хранилища.
func (s *RecordingService) CreateSchema(ctx context.Context) error {
	return s.repo.CreateSchema(ctx)
}

// SaveRecording returns ports.NoRecordingID when the insert failed.
func (s *RecordingService) SaveRecording(ctx context.Context, in ports.NewRecording) ports.RecordingID {
	id, err := s.repo.CreateRecording(ctx, in)
	if err != nil {
		s.softFail(ctx, "save recording", err,
			zap.String("source", in.SourceLanguage), zap.String("target", in.TargetLanguage))
		return ports.NoRecordingID
	}
	return id
}

func (s *RecordingService) SaveMLAnalysis(ctx context.Context, id ports.RecordingID, m scoring.Metrics) WriteResult {
	err := s.repo.CreateMLAnalysis(ctx, ports.MLAnalysis{
		RecordingID:       id,
		Complexity:        string(m.Complexity),
		Sentiment:         string(m.Sentiment),
		Confidence:        m.Confidence,
		PredictedLanguage: m.PredictedLanguage,
		TextLength:        m.TextLength,
		WordCount:         m.WordCount,
	})
	if err != nil {
		s.softFail(ctx, "save ml analysis", err, zap.Int64("recording_id", int64(id)))
		return writeFailed("save ml analysis", err)
	}
	return WriteResult{}
}

func (s *RecordingService) UpdateUserStats(ctx context.Context, sourceLang, targetLang, userID string) WriteResult {
	if userID == "" {
		userID = ports.DefaultUserID
	}
	if err := s.repo.UpsertUserStats(ctx, userID, sourceLang, targetLang); err != nil {
		s.softFail(ctx, "update user stats", err, zap.String("user_id", userID))
		return writeFailed("update user stats", err)
	}
	return WriteResult{}
}

func (s *RecordingService) GetRecentRecordings(ctx context.Context, limit int) ([]ports.Recording, error) {
	return s.repo.GetRecent(ctx, limit)
}

func (s *RecordingService) GetUserRecordings(ctx context.Context, userID string, limit int) ([]ports.Recording, error) {
	return s.repo.GetRecentByUser(ctx, userID, limit)
}

func (s *RecordingService) GetAllRecordings(ctx context.Context) ([]ports.Recording, error) {
	return s.repo.GetAll(ctx)
}

func (s *RecordingService) GetMLInsights(ctx context.Context) (*ports.MLInsights, error) {
	return s.repo.GetMLInsights(ctx)
}

func (s *RecordingService) GetUserStats(ctx context.Context, userID string) (*ports.UserStats, error) {
	return s.repo.GetUserStats(ctx, userID)
}

func (s *RecordingService) softFail(ctx context.Context, op string, err error, fields ...zap.Field) {
	s.log.Error("[storage] "+op+" failed", append(fields, zap.Error(err))...)
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, err, "storage: "+op)
	}
}
