package speech

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// === Единый сервис (и для стт и для ттс) ===

type Service struct {
	stt STTClient
	tts TTSClient
}

func NewService(stt STTClient, tts TTSClient) *Service {
	return &Service{
		stt: stt,
		tts: tts,
	}
}

// Transcribe returns the recognized text, ErrUnrecognizedSpeech or a
// *ServiceError.
func (s *Service) Transcribe(ctx context.Context, filePath, language string) (string, error) {
	text, err := s.stt.Transcribe(ctx, filePath, language)
	if err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUnrecognizedSpeech
	}
	return text, nil
}

func (s *Service) Synthesize(ctx context.Context, text, language, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := s.tts.Synthesize(ctx, text, language, outPath); err != nil {
		// недописанный файл не оставляем
		os.Remove(outPath)
		return &ServiceError{Op: "synthesize", Err: err}
	}
	return nil
}
