package ports

import (
	"context"
	"time"
)

// RecordingID - суррогатный ключ записи.
type RecordingID int64

// NoRecordingID is returned when a recording could not be stored.
const NoRecordingID RecordingID = 0

// DefaultUserID - единственный пользователь, пока нет авторизации
const DefaultUserID = "default"

// Recording is one voice interaction.
type Recording struct {
	ID             RecordingID `json:"id"`
	OriginalText   string      `json:"original_text"`
	TranslatedText string      `json:"translated_text"`
	SourceLanguage string      `json:"source_language"`
	TargetLanguage string      `json:"target_language"`
	AudioPath      string      `json:"audio_path"`
	CreatedAt      time.Time   `json:"created_at"`
	UserID         string      `json:"user_id"`
}

// NewRecording - вход для вставки, id и created_at проставляет хранилище
type NewRecording struct {
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	AudioPath      string
	UserID         string
}

// MLAnalysis holds the text metrics of exactly one recording.
type MLAnalysis struct {
	ID                int64       `json:"id"`
	RecordingID       RecordingID `json:"recording_id"`
	Complexity        string      `json:"complexity"`
	Sentiment         string      `json:"sentiment"`
	Confidence        int         `json:"confidence"`
	PredictedLanguage string      `json:"predicted_language"`
	TextLength        int         `json:"text_length"`
	WordCount         int         `json:"word_count"`
	CreatedAt         time.Time   `json:"created_at"`
}

// UserStats - агрегаты по пользователю. Favorite* это последние
// использованные языки, а не самые частые.
type UserStats struct {
	UserID                 string    `json:"user_id"`
	TotalTranslations      int       `json:"total_translations"`
	FavoriteSourceLanguage string    `json:"favorite_source_language"`
	FavoriteTargetLanguage string    `json:"favorite_target_language"`
	LastActive             time.Time `json:"last_active"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MLInsights aggregates all analyses. Averages are nil when there are none.
type MLInsights struct {
	AvgConfidence *float64     `json:"avg_confidence"`
	AvgTextLength *float64     `json:"avg_text_length"`
	AvgWordCount  *float64     `json:"avg_word_count"`
	Sentiment     []LabelCount `json:"sentiment"`
	Complexity    []LabelCount `json:"complexity"`
}

// Empty reports whether no analysis has been stored yet.
func (i *MLInsights) Empty() bool {
	return i == nil || i.AvgConfidence == nil
}

// Репозиторий (sqlite / postgres)
type RecordingRepo interface {
	CreateSchema(ctx context.Context) error

	CreateRecording(ctx context.Context, in NewRecording) (RecordingID, error)
	CreateMLAnalysis(ctx context.Context, a MLAnalysis) error
	UpsertUserStats(ctx context.Context, userID, sourceLang, targetLang string) error

	GetRecent(ctx context.Context, limit int) ([]Recording, error)
	GetRecentByUser(ctx context.Context, userID string, limit int) ([]Recording, error)
	GetAll(ctx context.Context) ([]Recording, error)
	GetMLInsights(ctx context.Context) (*MLInsights, error)
	GetUserStats(ctx context.Context, userID string) (*UserStats, error)
	CountRecordings(ctx context.Context) (int, error)
}
