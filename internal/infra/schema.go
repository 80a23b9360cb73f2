package infra

import "fmt"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS recordings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_text TEXT NOT NULL,
		translated_text TEXT NOT NULL DEFAULT '',
		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,
		audio_path TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		user_id TEXT NOT NULL DEFAULT 'default'
	)`,
	`CREATE INDEX IF NOT EXISTS recordings_created_at_idx ON recordings (created_at)`,
	`CREATE TABLE IF NOT EXISTS ml_analysis (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recording_id INTEGER NOT NULL,
		complexity TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		predicted_language TEXT NOT NULL,
		text_length INTEGER NOT NULL,
		word_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ml_analysis_recording_idx ON ml_analysis (recording_id)`,
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id TEXT PRIMARY KEY,
		total_translations INTEGER NOT NULL DEFAULT 0,
		favorite_source_language TEXT NOT NULL DEFAULT '',
		favorite_target_language TEXT NOT NULL DEFAULT '',
		last_active DATETIME NOT NULL
	)`,
}

// без FOREIGN KEY: порядок вставки держит вызывающий
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS recordings (
		id BIGSERIAL PRIMARY KEY,
		original_text TEXT NOT NULL,
		translated_text TEXT NOT NULL DEFAULT '',
		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,
		audio_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		user_id TEXT NOT NULL DEFAULT 'default'
	)`,
	`CREATE INDEX IF NOT EXISTS recordings_created_at_idx ON recordings (created_at)`,
	`CREATE TABLE IF NOT EXISTS ml_analysis (
		id BIGSERIAL PRIMARY KEY,
		recording_id BIGINT NOT NULL,
		complexity TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		predicted_language TEXT NOT NULL,
		text_length INTEGER NOT NULL,
		word_count INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ml_analysis_recording_idx ON ml_analysis (recording_id)`,
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id TEXT PRIMARY KEY,
		total_translations INTEGER NOT NULL DEFAULT 0,
		favorite_source_language TEXT NOT NULL DEFAULT '',
		favorite_target_language TEXT NOT NULL DEFAULT '',
		last_active TIMESTAMPTZ NOT NULL
	)`,
}

func (d Dialect) schema() ([]string, error) {
	switch d {
	case DialectSQLite:
		return sqliteSchema, nil
	case DialectPostgres:
		return postgresSchema, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", d)
}
