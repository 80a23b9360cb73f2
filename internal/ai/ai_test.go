package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIClientWithConfig(cfg, "")
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
}

func TestTranslatorTranslate(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		chatReply(w, "  hola mundo \n")
	})

	out, err := NewTranslator(client).Translate(context.Background(), "hello world", "en", "es")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "hola mundo" {
		t.Errorf("out = %q", out)
	}
	if gotReq.Model != openai.GPT4oMini {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "hello world" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, `"es"`) {
		t.Errorf("system prompt misses target: %q", gotReq.Messages[0].Content)
	}
}

func TestTranslatorEmptyReply(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(w, "   ")
	})

	_, err := NewTranslator(client).Translate(context.Background(), "hello", "en", "fr")
	if !errors.Is(err, ErrEmptyTranslation) {
		t.Fatalf("err = %v, want ErrEmptyTranslation", err)
	}
}

func TestTranslatorServiceError(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	})

	if _, err := NewTranslator(client).Translate(context.Background(), "hello", "en", "fr"); err == nil {
		t.Fatal("expected error")
	}
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisperTranscribe(t *testing.T) {
	var lang string
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		r.ParseMultipartForm(1 << 20)
		lang = r.FormValue("language")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":" hello world "}`)
	})

	text, err := client.Transcribe(context.Background(), writeAudio(t), "en-US")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
	if lang != "en" {
		t.Errorf("language = %q, want en", lang)
	}
}

func newTestDeepgram(t *testing.T, h http.HandlerFunc) *DeepgramClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewDeepgramClient("dg-key")
	c.baseURL = srv.URL
	return c
}

func TestDeepgramTranscribe(t *testing.T) {
	var auth, lang string
	c := newTestDeepgram(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		lang = r.URL.Query().Get("language")
		io.WriteString(w, `{"results":{"channels":[{"alternatives":[{"transcript":"hola"}]}]}}`)
	})

	text, err := c.Transcribe(context.Background(), writeAudio(t), "es-ES")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hola" {
		t.Errorf("text = %q", text)
	}
	if auth != "Token dg-key" {
		t.Errorf("auth = %q", auth)
	}
	if lang != "es-ES" {
		t.Errorf("language = %q", lang)
	}
}

func TestDeepgramEmptyTranscript(t *testing.T) {
	c := newTestDeepgram(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":{"channels":[]}}`)
	})

	text, err := c.Transcribe(context.Background(), writeAudio(t), "en-US")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestDeepgramHTTPError(t *testing.T) {
	c := newTestDeepgram(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	if _, err := c.Transcribe(context.Background(), writeAudio(t), "en-US"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeepgramMissingFile(t *testing.T) {
	c := NewDeepgramClient("k")
	if _, err := c.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"), "en-US"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
