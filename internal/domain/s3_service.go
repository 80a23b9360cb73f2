package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/linguamate/internal/ports"
)

type s3Service struct {
	client ports.S3Client
}

func NewS3Service(client ports.S3Client) ports.S3Service {
	return &s3Service{client: client}
}

// ObjectKey - путь в бакете
func (s *s3Service) ObjectKey(userID, filename string) string {
	if userID == "" {
		userID = ports.DefaultUserID
	}
	date := time.Now().Format("2006-01-02")
	clean := filepath.Base(filename)
	return fmt.Sprintf("%s/%s/%s", userID, date, clean)
}

// SaveAudio копирует локальный аудиофайл в бакет и возвращает публичный URL.
func (s *s3Service) SaveAudio(ctx context.Context, userID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat audio: %w", err)
	}

	key := s.ObjectKey(userID, path)
	return s.client.PutObject(ctx, key, f, info.Size(), contentType(path))
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	}
	return "application/octet-stream"
}
