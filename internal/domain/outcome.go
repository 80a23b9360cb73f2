package domain

import (
	"github.com/Vovarama1992/linguamate/internal/ports"
	"github.com/Vovarama1992/linguamate/internal/scoring"
)

// State - терминальное состояние прохода.
type State string

const (
	StateCompleted           State = "completed"
	StateRejected            State = "rejected"
	StateFailedNoAudio       State = "failed_no_audio"
	StateFailedUnrecognized  State = "failed_unrecognized"
	StateFailedTranscription State = "failed_transcription"
	StateFailedTranslation   State = "failed_translation"
	StateFailedSynthesis     State = "failed_synthesis"
)

// Persistence - что удалось записать в хранилище.
type Persistence string

const (
	PersistSkipped Persistence = "skipped"
	PersistStored  Persistence = "stored"
	PersistPartial Persistence = "partial"
	PersistFailed  Persistence = "failed"
)

// Outcome is the result of one pass. Err is set for every failure state
// except StateCompleted.
type Outcome struct {
	PassID      string            `json:"pass_id"`
	State       State             `json:"state"`
	Message     string            `json:"message"`
	Persistence Persistence       `json:"persistence"`
	RecordingID ports.RecordingID `json:"recording_id,omitempty"`

	Source      string           `json:"source_language"`
	Target      string           `json:"target_language"`
	Transcript  string           `json:"transcript,omitempty"`
	Translation string           `json:"translation,omitempty"`
	Metrics     *scoring.Metrics `json:"metrics,omitempty"`

	AudioPath  string `json:"audio_path,omitempty"`
	SpeechPath string `json:"speech_path,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
	SpeechURL  string `json:"speech_url,omitempty"`

	Error         string   `json:"error,omitempty"`
	StorageErrors []string `json:"storage_errors,omitempty"`
	Err           error    `json:"-"`
}

func (o Outcome) Succeeded() bool { return o.State == StateCompleted }

// messageFor - одно сообщение на каждое терминальное состояние.
func messageFor(state State, p Persistence) string {
	switch state {
	case StateCompleted:
		switch p {
		case PersistStored:
			return "Recording & ML analysis stored in database."
		case PersistPartial:
			return "Translation complete. Recording stored, some analytics were not saved."
		default:
			return "Translation complete, but the database storage failed."
		}
	case StateRejected:
		return "Please select two different supported languages."
	case StateFailedNoAudio:
		return "No audio captured. Check the microphone and try again."
	case StateFailedUnrecognized:
		return "Couldn't understand the audio. Please speak clearly and try again."
	case StateFailedTranscription:
		return "Speech recognition service error. Please try again later."
	case StateFailedTranslation:
		return "Translation failed. Please try again later."
	case StateFailedSynthesis:
		return "Speech synthesis failed. Please try again later."
	}
	return "Unknown state."
}
