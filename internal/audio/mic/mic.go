// Package mic records one spoken phrase from the default input device.
package mic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/Vovarama1992/linguamate/internal/audio"
)

// Mic записывает аудио с микрофона. Одна запись за раз.
type Mic struct {
	mu     sync.Mutex
	buffer []float32
}

// New инициализирует portaudio. Close обязателен.
func New() (*Mic, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrNoAudio, err)
	}
	return &Mic{buffer: make([]float32, audio.FramesPerBuffer)}, nil
}

// Close освобождает ресурсы.
func (m *Mic) Close() error {
	return portaudio.Terminate()
}

// Record calibrates on ambient noise, then waits up to timeout for speech and
// returns the phrase as WAV. The speech dialect does not affect capture.
func (m *Mic) Record(ctx context.Context, _ string, calibration, timeout time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(
		audio.Channels,        // input channels
		0,                     // output channels
		audio.SampleRate,      // sample rate
		audio.FramesPerBuffer, // frames per buffer
		m.buffer,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: open input: %v", audio.ErrNoAudio, err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("%w: start input: %v", audio.ErrNoAudio, err)
	}
	defer stream.Stop()

	// калибровка по фоновому шуму
	var ambient [][]float32
	frameDur := time.Duration(audio.FramesPerBuffer) * time.Second / audio.SampleRate
	for elapsed := time.Duration(0); elapsed < calibration; elapsed += frameDur {
		frame, err := m.read(ctx, stream)
		if err != nil {
			return nil, err
		}
		ambient = append(ambient, frame)
	}

	detector := audio.NewPhraseDetector(audio.Threshold(ambient), audio.SampleRate, audio.FramesPerBuffer, timeout)
	for {
		frame, err := m.read(ctx, stream)
		if err != nil {
			return nil, err
		}
		done, err := detector.Feed(frame)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	return audio.EncodeWAV(detector.Samples(), audio.SampleRate, audio.Channels), nil
}

func (m *Mic) read(ctx context.Context, stream *portaudio.Stream) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrNoAudio, err)
	}
	// переполнение буфера не фатально, кадр всё равно прочитан
	if err := stream.Read(); err != nil && err != portaudio.InputOverflowed {
		return nil, fmt.Errorf("%w: read input: %v", audio.ErrNoAudio, err)
	}
	frame := make([]float32, len(m.buffer))
	copy(frame, m.buffer)
	return frame, nil
}
