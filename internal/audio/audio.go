// Package audio holds microphone-independent capture logic: phrase detection
// over PCM frames and WAV encoding.
package audio

import (
	"errors"
	"math"
	"time"
)

const (
	// SampleRate - частота дискретизации (хватает и Whisper, и Deepgram).
	SampleRate = 16000
	// Channels - mono.
	Channels = 1
	// FramesPerBuffer - размер буфера (64ms при 16kHz).
	FramesPerBuffer = 1024

	// PauseThreshold - тишина после речи, завершающая фразу.
	PauseThreshold = 800 * time.Millisecond
	// MaxPhrase - жёсткий предел длины фразы.
	MaxPhrase = 30 * time.Second

	minEnergy = 0.01
)

// ErrNoAudio covers every capture failure: no device, no speech before the
// listen timeout, cancelled capture.
var ErrNoAudio = errors.New("no audio captured")

// RMS returns the root mean square energy of a frame.
func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Threshold derives the speech threshold from ambient frames recorded during
// calibration.
func Threshold(ambient [][]float32) float64 {
	if len(ambient) == 0 {
		return minEnergy
	}
	var sum float64
	for _, f := range ambient {
		sum += RMS(f)
	}
	return math.Max((sum/float64(len(ambient)))*1.5, minEnergy)
}

// PhraseDetector collects frames of one spoken phrase. Feed it frames in
// order; it reports done when the phrase ended or ErrNoAudio when nobody
// spoke before the timeout.
type PhraseDetector struct {
	threshold  float64
	sampleRate int
	frameDur   time.Duration
	timeout    time.Duration

	waited  time.Duration
	silence time.Duration
	started bool
	samples []float32
}

func NewPhraseDetector(threshold float64, sampleRate, frameSize int, timeout time.Duration) *PhraseDetector {
	return &PhraseDetector{
		threshold:  threshold,
		sampleRate: sampleRate,
		frameDur:   time.Duration(frameSize) * time.Second / time.Duration(sampleRate),
		timeout:    timeout,
	}
}

func (d *PhraseDetector) Feed(frame []float32) (done bool, err error) {
	loud := RMS(frame) > d.threshold

	if !d.started {
		if !loud {
			d.waited += d.frameDur
			if d.timeout > 0 && d.waited >= d.timeout {
				return true, ErrNoAudio
			}
			return false, nil
		}
		d.started = true
	}

	d.samples = append(d.samples, frame...)
	if loud {
		d.silence = 0
	} else {
		d.silence += d.frameDur
	}

	phrase := time.Duration(len(d.samples)) * time.Second / time.Duration(d.sampleRate)
	return d.silence >= PauseThreshold || phrase >= MaxPhrase, nil
}

// Samples returns the phrase collected so far.
func (d *PhraseDetector) Samples() []float32 { return d.samples }
