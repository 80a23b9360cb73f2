package infra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Vovarama1992/linguamate/internal/ports"
)

type recordingRepo struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewRecordingRepo(db *sql.DB, dialect Dialect) ports.RecordingRepo {
	return &recordingRepo{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateSchema is idempotent and safe to call on every start.
func (r *recordingRepo) CreateSchema(ctx context.Context) error {
	stmts, err := r.dialect.schema()
	if err != nil {
		return &StorageInitError{Op: "schema", Err: err}
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return &StorageInitError{Op: "schema", Err: err}
		}
	}
	return nil
}

func (r *recordingRepo) CreateRecording(ctx context.Context, in ports.NewRecording) (ports.RecordingID, error) {
	userID := in.UserID
	if userID == "" {
		userID = ports.DefaultUserID
	}

	var id ports.RecordingID
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`
		INSERT INTO recordings (original_text, translated_text, source_language, target_language, audio_path, created_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), in.OriginalText, in.TranslatedText, in.SourceLanguage, in.TargetLanguage, in.AudioPath, r.now(), userID).Scan(&id)
	if err != nil {
		return ports.NoRecordingID, err
	}
	return id, nil
}

func (r *recordingRepo) CreateMLAnalysis(ctx context.Context, a ports.MLAnalysis) error {
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO ml_analysis (recording_id, complexity, sentiment, confidence, predicted_language, text_length, word_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), a.RecordingID, a.Complexity, a.Sentiment, a.Confidence, a.PredictedLanguage, a.TextLength, a.WordCount, r.now())
	return err
}

// UpsertUserStats increments the counter and overwrites the last used
// languages in one statement.
func (r *recordingRepo) UpsertUserStats(ctx context.Context, userID, sourceLang, targetLang string) error {
	if userID == "" {
		userID = ports.DefaultUserID
	}
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO user_stats (user_id, total_translations, favorite_source_language, favorite_target_language, last_active)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_translations = user_stats.total_translations + 1,
			favorite_source_language = excluded.favorite_source_language,
			favorite_target_language = excluded.favorite_target_language,
			last_active = excluded.last_active
	`), userID, sourceLang, targetLang, r.now())
	return err
}

const recordingColumns = `id, original_text, translated_text, source_language, target_language, audio_path, created_at, user_id`

func (r *recordingRepo) GetRecent(ctx context.Context, limit int) ([]ports.Recording, error) {
	if limit <= 0 {
		return []ports.Recording{}, nil
	}
	return r.queryRecordings(ctx, `
		SELECT `+recordingColumns+`
		FROM recordings
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
}

func (r *recordingRepo) GetRecentByUser(ctx context.Context, userID string, limit int) ([]ports.Recording, error) {
	if limit <= 0 {
		return []ports.Recording{}, nil
	}
	if userID == "" {
		userID = ports.DefaultUserID
	}
	return r.queryRecordings(ctx, `
		SELECT `+recordingColumns+`
		FROM recordings
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
}

func (r *recordingRepo) GetAll(ctx context.Context) ([]ports.Recording, error) {
	return r.queryRecordings(ctx, `
		SELECT `+recordingColumns+`
		FROM recordings
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *recordingRepo) queryRecordings(ctx context.Context, query string, args ...any) ([]ports.Recording, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ports.Recording{}
	for rows.Next() {
		var rec ports.Recording
		if err := rows.Scan(
			&rec.ID,
			&rec.OriginalText,
			&rec.TranslatedText,
			&rec.SourceLanguage,
			&rec.TargetLanguage,
			&rec.AudioPath,
			&rec.CreatedAt,
			&rec.UserID,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordingRepo) GetMLInsights(ctx context.Context) (*ports.MLInsights, error) {
	var avgConf, avgLen, avgWords sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT AVG(confidence), AVG(text_length), AVG(word_count)
		FROM ml_analysis
	`).Scan(&avgConf, &avgLen, &avgWords)
	if err != nil {
		return nil, err
	}

	out := &ports.MLInsights{
		AvgConfidence: nullFloat(avgConf),
		AvgTextLength: nullFloat(avgLen),
		AvgWordCount:  nullFloat(avgWords),
	}

	if out.Sentiment, err = r.histogram(ctx, "sentiment"); err != nil {
		return nil, err
	}
	if out.Complexity, err = r.histogram(ctx, "complexity"); err != nil {
		return nil, err
	}
	return out, nil
}

// column - только константы из GetMLInsights
func (r *recordingRepo) histogram(ctx context.Context, column string) ([]ports.LabelCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+column+`, COUNT(*)
		FROM ml_analysis
		GROUP BY `+column+`
		ORDER BY `+column+`
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.LabelCount{}
	for rows.Next() {
		var lc ports.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

func (r *recordingRepo) GetUserStats(ctx context.Context, userID string) (*ports.UserStats, error) {
	if userID == "" {
		userID = ports.DefaultUserID
	}
	var st ports.UserStats
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`
		SELECT user_id, total_translations, favorite_source_language, favorite_target_language, last_active
		FROM user_stats
		WHERE user_id = ?
	`), userID).Scan(&st.UserID, &st.TotalTranslations, &st.FavoriteSourceLanguage, &st.FavoriteTargetLanguage, &st.LastActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (r *recordingRepo) CountRecordings(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recordings`).Scan(&n)
	return n, err
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
