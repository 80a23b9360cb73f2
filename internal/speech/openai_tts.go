package speech

import (
	"context"
	"io"
)

type speaker interface {
	Speak(ctx context.Context, text string) (io.ReadCloser, error)
}

// OpenAITTS озвучивает через OpenAI. Голос мультиязычный, язык не передаётся.
type OpenAITTS struct {
	client speaker
}

func NewOpenAITTS(client speaker) *OpenAITTS {
	return &OpenAITTS{client: client}
}

func (t *OpenAITTS) Synthesize(ctx context.Context, text, _ string, outPath string) error {
	audio, err := t.client.Speak(ctx, text)
	if err != nil {
		return err
	}
	defer audio.Close()

	return writeAudio(outPath, audio)
}
