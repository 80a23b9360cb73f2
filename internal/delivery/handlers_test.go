package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/ports"
)

type fakeRunner struct {
	out domain.Outcome
	req domain.PassRequest
}

func (f *fakeRunner) Run(_ context.Context, req domain.PassRequest) domain.Outcome {
	f.req = req
	return f.out
}

type fakeHistory struct {
	recent []ports.Recording
	limit  int
	stats  *ports.UserStats
	user   string
	err    error
}

func (f *fakeHistory) GetRecentRecordings(_ context.Context, limit int) ([]ports.Recording, error) {
	f.limit = limit
	return f.recent, f.err
}

func (f *fakeHistory) GetMLInsights(context.Context) (*ports.MLInsights, error) {
	if f.err != nil {
		return nil, f.err
	}
	avg := 70.0
	return &ports.MLInsights{AvgConfidence: &avg, Sentiment: []ports.LabelCount{{Label: "Positive", Count: 1}}}, nil
}

func (f *fakeHistory) GetUserStats(_ context.Context, user string) (*ports.UserStats, error) {
	f.user = user
	return f.stats, f.err
}

func (f *fakeHistory) StorageStats(_ context.Context, dbFile, dir string) (*domain.StorageStats, error) {
	return &domain.StorageStats{TotalRecordings: 3, DatabaseSize: "12 kB"}, f.err
}

func newTestRouter(t *testing.T, runner *fakeRunner, hist *fakeHistory) (http.Handler, string) {
	t.Helper()
	zl := logger.NewZapLogger(zap.NewNop().Sugar())
	dir := t.TempDir()
	return NewRouter(NewTranslateHandler(runner, zl), NewHistoryHandler(hist, "", dir, zl)), dir
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "speech.wav")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestPing(t *testing.T) {
	h, _ := newTestRouter(t, &fakeRunner{}, &fakeHistory{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestLanguages(t *testing.T) {
	h, _ := newTestRouter(t, &fakeRunner{}, &fakeHistory{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/languages", nil))

	var got []map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 16 || got[0]["label"] != "English" {
		t.Errorf("languages = %v", got)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		state domain.State
		want  int
	}{
		{"completed", domain.StateCompleted, http.StatusOK},
		{"rejected", domain.StateRejected, http.StatusBadRequest},
		{"unrecognized", domain.StateFailedUnrecognized, http.StatusUnprocessableEntity},
		{"translation down", domain.StateFailedTranslation, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{out: domain.Outcome{PassID: "p1", State: tt.state, Translation: "hola"}}
			if tt.state != domain.StateCompleted {
				runner.out.Err = errors.New(string(tt.state))
			}
			h, _ := newTestRouter(t, runner, &fakeHistory{})

			body, ct := multipartBody(t, map[string]string{"source": "English", "target": " Spanish ", "user": "alice"}, []byte("RIFF"))
			req := httptest.NewRequest(http.MethodPost, "/translate", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if runner.req.SourceLanguage != "English" || runner.req.TargetLanguage != "Spanish" || runner.req.UserID != "alice" {
				t.Errorf("request = %+v", runner.req)
			}
			if string(runner.req.Audio) != "RIFF" || runner.req.AudioExt != ".wav" {
				t.Errorf("audio = %q (%s)", runner.req.Audio, runner.req.AudioExt)
			}
			var out map[string]any
			json.NewDecoder(rec.Body).Decode(&out)
			if out["pass_id"] != "p1" || out["state"] != string(tt.state) {
				t.Errorf("body = %v", out)
			}
		})
	}
}

func TestTranslateBadRequest(t *testing.T) {
	runner := &fakeRunner{}
	h, _ := newTestRouter(t, runner, &fakeHistory{})

	cases := []struct {
		name   string
		fields map[string]string
		file   []byte
	}{
		{"no file", map[string]string{"source": "English", "target": "Spanish"}, nil},
		{"no target", map[string]string{"source": "English"}, []byte("RIFF")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body, ct := multipartBody(t, c.fields, c.file)
			req := httptest.NewRequest(http.MethodPost, "/translate", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}
	if runner.req.SourceLanguage != "" {
		t.Error("pipeline ran on a bad request")
	}
}

func TestRecent(t *testing.T) {
	hist := &fakeHistory{recent: []ports.Recording{{ID: 2, OriginalText: "b", CreatedAt: time.Now()}}}
	h, _ := newTestRouter(t, &fakeRunner{}, hist)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recordings", nil))
	if rec.Code != http.StatusOK || hist.limit != DefaultHistoryLimit {
		t.Fatalf("status = %d, limit = %d", rec.Code, hist.limit)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recordings?limit=12", nil))
	if hist.limit != 12 {
		t.Errorf("limit = %d", hist.limit)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recordings?limit=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit: status = %d", rec.Code)
	}
}

func TestHistoryDBError(t *testing.T) {
	h, _ := newTestRouter(t, &fakeRunner{}, &fakeHistory{err: errors.New("database is locked")})
	for _, path := range []string{"/recordings", "/insights", "/stats", "/storage"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
	}
}

func TestInsights(t *testing.T) {
	h, _ := newTestRouter(t, &fakeRunner{}, &fakeHistory{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights", nil))

	var ins ports.MLInsights
	if err := json.NewDecoder(rec.Body).Decode(&ins); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ins.AvgConfidence == nil || *ins.AvgConfidence != 70 {
		t.Errorf("insights = %+v", ins)
	}
}

func TestUserStats(t *testing.T) {
	hist := &fakeHistory{}
	h, _ := newTestRouter(t, &fakeRunner{}, hist)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if rec.Code != http.StatusNotFound || hist.user != ports.DefaultUserID {
		t.Fatalf("status = %d, user = %q", rec.Code, hist.user)
	}

	hist.stats = &ports.UserStats{UserID: "bob", TotalTranslations: 4}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?user=bob", nil))
	if rec.Code != http.StatusOK || hist.user != "bob" {
		t.Fatalf("status = %d, user = %q", rec.Code, hist.user)
	}
}

func TestFile(t *testing.T) {
	h, dir := newTestRouter(t, &fakeRunner{}, &fakeHistory{})
	if err := os.WriteFile(filepath.Join(dir, "tts_1.mp3"), []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/tts_1.mp3", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ID3" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/notes.txt", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("non-audio: status = %d", rec.Code)
	}
}
