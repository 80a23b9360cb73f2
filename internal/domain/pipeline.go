package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/audio"
	"github.com/Vovarama1992/linguamate/internal/error_notificator"
	"github.com/Vovarama1992/linguamate/internal/languages"
	"github.com/Vovarama1992/linguamate/internal/ports"
	"github.com/Vovarama1992/linguamate/internal/scoring"
	"github.com/Vovarama1992/linguamate/internal/speech"
)

var (
	ErrSameLanguage        = errors.New("source and target languages are the same")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Recorder captures one phrase from the microphone as WAV.
type Recorder interface {
	Record(ctx context.Context, speechCode string, calibration, timeout time.Duration) ([]byte, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, filePath, language string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, language, outPath string) error
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Store - мягкие записи прохода, см. RecordingService.
type Store interface {
	SaveRecording(ctx context.Context, in ports.NewRecording) ports.RecordingID
	SaveMLAnalysis(ctx context.Context, id ports.RecordingID, m scoring.Metrics) WriteResult
	UpdateUserStats(ctx context.Context, sourceLang, targetLang, userID string) WriteResult
}

type PipelineConfig struct {
	RecordingsDir  string
	Calibration    time.Duration
	ListenTimeout  time.Duration
	PersistPartial bool
	DefaultUser    string
}

// PipelineDeps - коллабораторы прохода. Recorder, Archive и Notifier
// необязательны.
type PipelineDeps struct {
	Recorder    Recorder
	Transcriber Transcriber
	Translator  Translator
	Synthesizer Synthesizer
	Scorer      scoring.Scorer
	Store       Store
	Archive     ports.S3Service
	Notifier    error_notificator.Notificator
}

// PassRequest describes one pass. When Audio is set the microphone is not
// used and the bytes are treated as the captured phrase. AudioExt names the
// container of uploaded audio, ".wav" when empty.
type PassRequest struct {
	SourceLanguage string
	TargetLanguage string
	UserID         string
	Audio          []byte
	AudioExt       string
}

// Pipeline runs capture → transcribe → score → translate → synthesize →
// persist, one stage after another.
type Pipeline struct {
	deps PipelineDeps
	cfg  PipelineConfig
	log  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewPipeline(deps PipelineDeps, cfg PipelineConfig, log *zap.Logger) *Pipeline {
	if deps.Scorer == nil {
		deps.Scorer = scoring.NewHeuristic()
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = ports.DefaultUserID
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		deps:  deps,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (p *Pipeline) Run(ctx context.Context, req PassRequest) Outcome {
	out := Outcome{
		PassID:      p.newID(),
		Source:      req.SourceLanguage,
		Target:      req.TargetLanguage,
		Persistence: PersistSkipped,
	}
	log := p.log.With(zap.String("pass_id", out.PassID))

	src, dst, err := resolvePair(req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		log.Warn("[pipeline] rejected", zap.Error(err))
		return p.finish(out, StateRejected, err)
	}
	out.Source, out.Target = src.Label, dst.Label

	userID := req.UserID
	if userID == "" {
		userID = p.cfg.DefaultUser
	}

	// запись
	wav, err := p.capture(ctx, src, req.Audio)
	if err != nil {
		log.Warn("[pipeline] capture failed", zap.String("stage", "capture"), zap.Error(err))
		return p.finish(out, StateFailedNoAudio, err)
	}
	audioPath := filepath.Join(p.cfg.RecordingsDir, "audio_"+p.stamp()+audioExt(req))
	if err := writeFile(audioPath, wav); err != nil {
		log.Error("[pipeline] save audio failed", zap.String("stage", "capture"), zap.Error(err))
		return p.finish(out, StateFailedNoAudio, fmt.Errorf("%w: %v", audio.ErrNoAudio, err))
	}
	out.AudioPath = audioPath

	// распознавание
	text, err := p.deps.Transcriber.Transcribe(ctx, audioPath, src.Speech)
	if errors.Is(err, speech.ErrUnrecognizedSpeech) {
		log.Info("[pipeline] speech not recognized", zap.String("stage", "transcribe"))
		return p.finish(out, StateFailedUnrecognized, err)
	}
	if err != nil {
		log.Error("[pipeline] transcription failed", zap.String("stage", "transcribe"), zap.Error(err))
		p.notify(ctx, err, "transcribe")
		return p.finish(out, StateFailedTranscription, err)
	}
	out.Transcript = text

	metrics := p.deps.Scorer.Score(text)
	out.Metrics = &metrics

	rec := ports.NewRecording{
		OriginalText:   text,
		SourceLanguage: src.Label,
		TargetLanguage: dst.Label,
		AudioPath:      audioPath,
		UserID:         userID,
	}

	// перевод
	translated, err := p.deps.Translator.Translate(ctx, text, src.Translate, dst.Translate)
	if err != nil {
		log.Error("[pipeline] translation failed", zap.String("stage", "translate"), zap.Error(err))
		p.notify(ctx, err, "translate")
		if p.cfg.PersistPartial {
			p.persist(ctx, log, &out, rec, metrics, false)
		}
		return p.finish(out, StateFailedTranslation, err)
	}
	out.Translation = translated
	rec.TranslatedText = translated

	// озвучка
	speechPath := filepath.Join(p.cfg.RecordingsDir, "tts_"+p.stamp()+".mp3")
	if err := p.deps.Synthesizer.Synthesize(ctx, translated, dst.TTS, speechPath); err != nil {
		log.Error("[pipeline] synthesis failed", zap.String("stage", "synthesize"), zap.Error(err))
		p.notify(ctx, err, "synthesize")
		if p.cfg.PersistPartial {
			p.persist(ctx, log, &out, rec, metrics, true)
		}
		return p.finish(out, StateFailedSynthesis, err)
	}
	out.SpeechPath = speechPath

	p.archive(ctx, log, &out, userID)
	p.persist(ctx, log, &out, rec, metrics, true)

	log.Info("[pipeline] pass completed",
		zap.String("source", src.Label),
		zap.String("target", dst.Label),
		zap.String("persistence", string(out.Persistence)),
		zap.Int64("recording_id", int64(out.RecordingID)),
	)
	return p.finish(out, StateCompleted, nil)
}

func resolvePair(source, target string) (languages.Language, languages.Language, error) {
	src, ok := languages.Lookup(source)
	if !ok {
		return languages.Language{}, languages.Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, source)
	}
	dst, ok := languages.Lookup(target)
	if !ok {
		return languages.Language{}, languages.Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, target)
	}
	if src.Label == dst.Label {
		return languages.Language{}, languages.Language{}, ErrSameLanguage
	}
	return src, dst, nil
}

func audioExt(req PassRequest) string {
	if req.Audio == nil || req.AudioExt == "" {
		return ".wav"
	}
	if !strings.HasPrefix(req.AudioExt, ".") {
		return "." + strings.ToLower(req.AudioExt)
	}
	return strings.ToLower(req.AudioExt)
}

func (p *Pipeline) capture(ctx context.Context, src languages.Language, uploaded []byte) ([]byte, error) {
	if uploaded != nil {
		if len(uploaded) == 0 {
			return nil, audio.ErrNoAudio
		}
		return uploaded, nil
	}
	if p.deps.Recorder == nil {
		return nil, fmt.Errorf("%w: no recorder configured", audio.ErrNoAudio)
	}
	wav, err := p.deps.Recorder.Record(ctx, src.Speech, p.cfg.Calibration, p.cfg.ListenTimeout)
	if err != nil {
		return nil, err
	}
	if len(wav) == 0 {
		return nil, audio.ErrNoAudio
	}
	return wav, nil
}

// persist пишет запись и зависимые строки. withStats=false оставляет
// счётчик переводов нетронутым.
func (p *Pipeline) persist(ctx context.Context, log *zap.Logger, out *Outcome, rec ports.NewRecording, m scoring.Metrics, withStats bool) {
	id := p.deps.Store.SaveRecording(ctx, rec)
	if id == ports.NoRecordingID {
		out.Persistence = PersistFailed
		log.Warn("[pipeline] recording not stored", zap.String("stage", "persist"))
		return
	}
	out.RecordingID = id
	out.Persistence = PersistStored

	if res := p.deps.Store.SaveMLAnalysis(ctx, id, m); !res.OK() {
		out.Persistence = PersistPartial
		out.StorageErrors = append(out.StorageErrors, res.Err.Error())
	}
	if !withStats {
		return
	}
	if res := p.deps.Store.UpdateUserStats(ctx, rec.SourceLanguage, rec.TargetLanguage, rec.UserID); !res.OK() {
		out.Persistence = PersistPartial
		out.StorageErrors = append(out.StorageErrors, res.Err.Error())
	}
}

// archive - копия в бакет, ошибки не прерывают проход.
func (p *Pipeline) archive(ctx context.Context, log *zap.Logger, out *Outcome, userID string) {
	if p.deps.Archive == nil {
		return
	}
	if url, err := p.deps.Archive.SaveAudio(ctx, userID, out.AudioPath); err != nil {
		log.Warn("[pipeline] archive audio failed", zap.String("stage", "archive"), zap.Error(err))
	} else {
		out.AudioURL = url
	}
	if url, err := p.deps.Archive.SaveAudio(ctx, userID, out.SpeechPath); err != nil {
		log.Warn("[pipeline] archive speech failed", zap.String("stage", "archive"), zap.Error(err))
	} else {
		out.SpeechURL = url
	}
}

func (p *Pipeline) finish(out Outcome, state State, err error) Outcome {
	out.State = state
	out.Err = err
	if err != nil {
		out.Error = err.Error()
	}
	out.Message = messageFor(state, out.Persistence)
	return out
}

func (p *Pipeline) notify(ctx context.Context, err error, stage string) {
	if p.deps.Notifier != nil {
		_ = p.deps.Notifier.Notify(ctx, err, "pipeline: "+stage)
	}
}

// stamp - YYYYmmdd_HHMMSS_micro
func (p *Pipeline) stamp() string {
	t := p.now()
	return fmt.Sprintf("%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
