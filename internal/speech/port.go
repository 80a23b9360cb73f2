package speech

import (
	"context"
	"errors"
	"fmt"
)

// STTClient - голос → текст. Пустая строка без ошибки = ничего не распознано.
type STTClient interface {
	Transcribe(ctx context.Context, filePath, language string) (string, error)
}

// TTSClient - текст → голос, результат пишется в outPath.
type TTSClient interface {
	Synthesize(ctx context.Context, text, language, outPath string) error
}

// ErrUnrecognizedSpeech is not a failure of the service: the audio held
// silence or noise.
var ErrUnrecognizedSpeech = errors.New("speech not recognized")

// ServiceError is a remote recognition or synthesis failure.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
