package domain

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

type StorageStats struct {
	TotalRecordings int    `json:"total_recordings"`
	DatabaseSize    string `json:"database_size"`
	AudioFiles      int    `json:"audio_files"`
	SpeechFiles     int    `json:"speech_files"`
}

// StorageStats собирает сводку по базе и каталогу записей. dbFile пустой
// для сетевых DSN, тогда размер "n/a".
func (s *RecordingService) StorageStats(ctx context.Context, dbFile, recordingsDir string) (*StorageStats, error) {
	total, err := s.repo.CountRecordings(ctx)
	if err != nil {
		return nil, err
	}

	out := &StorageStats{
		TotalRecordings: total,
		DatabaseSize:    "n/a",
	}
	if dbFile != "" {
		if info, err := os.Stat(dbFile); err == nil {
			out.DatabaseSize = humanize.Bytes(uint64(info.Size()))
		}
	}

	entries, err := os.ReadDir(recordingsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".wav", ".ogg":
			out.AudioFiles++
		case ".mp3":
			out.SpeechFiles++
		}
	}
	return out, nil
}
