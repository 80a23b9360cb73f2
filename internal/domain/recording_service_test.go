package domain

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Vovarama1992/linguamate/internal/infra"
	"github.com/Vovarama1992/linguamate/internal/ports"
	"github.com/Vovarama1992/linguamate/internal/scoring"
)

func newTestService(t *testing.T) (*RecordingService, *sql.DB, *fakeNotifier, *observer.ObservedLogs, string) {
	t.Helper()

	dbFile := filepath.Join(t.TempDir(), "store.db")
	db, err := infra.OpenDB(context.Background(), infra.DialectSQLite, dbFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	core, logs := observer.New(zap.InfoLevel)
	n := &fakeNotifier{}
	svc := NewRecordingService(infra.NewRecordingRepo(db, infra.DialectSQLite), n, zap.New(core))
	if err := svc.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return svc, db, n, logs, dbFile
}

func TestRecordingServiceRoundTrip(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	id := svc.SaveRecording(ctx, ports.NewRecording{
		OriginalText:   "hello",
		TranslatedText: "hola",
		SourceLanguage: "English",
		TargetLanguage: "Spanish",
	})
	if id == ports.NoRecordingID {
		t.Fatal("got sentinel id")
	}
	m := scoring.NewHeuristic().Score("hello")
	if res := svc.SaveMLAnalysis(ctx, id, m); !res.OK() {
		t.Fatalf("SaveMLAnalysis: %v", res.Err)
	}
	if res := svc.UpdateUserStats(ctx, "English", "Spanish", ""); !res.OK() {
		t.Fatalf("UpdateUserStats: %v", res.Err)
	}

	recent, err := svc.GetRecentRecordings(ctx, 5)
	if err != nil || len(recent) != 1 || recent[0].ID != id {
		t.Fatalf("recent = %+v, %v", recent, err)
	}
	mine, err := svc.GetUserRecordings(ctx, ports.DefaultUserID, 5)
	if err != nil || len(mine) != 1 || mine[0].ID != id {
		t.Fatalf("user recordings = %+v, %v", mine, err)
	}
	if other, _ := svc.GetUserRecordings(ctx, "tg:1", 5); len(other) != 0 {
		t.Errorf("other user sees %+v", other)
	}
	all, err := svc.GetAllRecordings(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("all = %+v, %v", all, err)
	}
	ins, err := svc.GetMLInsights(ctx)
	if err != nil || ins.AvgConfidence == nil || *ins.AvgConfidence != float64(m.Confidence) {
		t.Fatalf("insights = %+v, %v", ins, err)
	}
	st, err := svc.GetUserStats(ctx, ports.DefaultUserID)
	if err != nil || st == nil || st.TotalTranslations != 1 {
		t.Fatalf("stats = %+v, %v", st, err)
	}
}

func TestRecordingServiceSoftFailures(t *testing.T) {
	svc, db, n, logs, _ := newTestService(t)
	ctx := context.Background()
	db.Close()

	if id := svc.SaveRecording(ctx, ports.NewRecording{OriginalText: "x"}); id != ports.NoRecordingID {
		t.Errorf("id = %d, want sentinel", id)
	}

	res := svc.SaveMLAnalysis(ctx, 1, scoring.Metrics{})
	var werr *StorageWriteError
	if res.OK() || !errors.As(res.Err, &werr) || werr.Op != "save ml analysis" {
		t.Errorf("SaveMLAnalysis result = %+v", res)
	}
	if res := svc.UpdateUserStats(ctx, "English", "Spanish", "bob"); res.OK() {
		t.Error("UpdateUserStats reported success on closed db")
	}

	if got := logs.FilterMessage("[storage] save recording failed").Len(); got != 1 {
		t.Errorf("save recording logged %d times", got)
	}
	if len(n.details) != 3 {
		t.Errorf("notifications = %v", n.details)
	}
}

func TestStorageStats(t *testing.T) {
	svc, _, _, _, dbFile := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	for _, name := range []string{"audio_1.wav", "audio_2.WAV", "tts_1.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755)
	svc.SaveRecording(ctx, ports.NewRecording{OriginalText: "x"})

	st, err := svc.StorageStats(ctx, dbFile, dir)
	if err != nil {
		t.Fatalf("StorageStats: %v", err)
	}
	if st.TotalRecordings != 1 || st.AudioFiles != 2 || st.SpeechFiles != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.DatabaseSize == "n/a" || st.DatabaseSize == "" {
		t.Errorf("database size = %q", st.DatabaseSize)
	}

	st, err = svc.StorageStats(ctx, "", filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("StorageStats missing dir: %v", err)
	}
	if st.DatabaseSize != "n/a" || st.AudioFiles != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestPipelineWithStore(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	h := newHarness(t)
	p := NewPipeline(PipelineDeps{
		Recorder:    h.rec,
		Transcriber: h.stt,
		Translator:  h.tr,
		Synthesizer: h.tts,
		Store:       svc,
	}, h.cfg, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if out := p.Run(ctx, PassRequest{SourceLanguage: "English", TargetLanguage: "French"}); out.State != StateCompleted || out.Persistence != PersistStored {
			t.Fatalf("pass %d: %s/%s %v", i, out.State, out.Persistence, out.Err)
		}
	}
	h.stt.err = errors.New("down")
	p.Run(ctx, PassRequest{SourceLanguage: "English", TargetLanguage: "French"})

	all, _ := svc.GetAllRecordings(ctx)
	if len(all) != 2 {
		t.Errorf("recordings = %d, want 2", len(all))
	}
	ins, _ := svc.GetMLInsights(ctx)
	var analysed int
	for _, lc := range ins.Sentiment {
		analysed += lc.Count
	}
	if analysed != 2 {
		t.Errorf("analyses = %d, want 2", analysed)
	}
	st, _ := svc.GetUserStats(ctx, "")
	if st == nil || st.TotalTranslations != 2 {
		t.Errorf("stats = %+v", st)
	}
}
