package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/languages"
)

const maxUpload = 20 << 20

type PassRunner interface {
	Run(ctx context.Context, req domain.PassRequest) domain.Outcome
}

type TranslateHandler struct {
	pipeline PassRunner
	log      *logger.ZapLogger
}

func NewTranslateHandler(pipeline PassRunner, log *logger.ZapLogger) *TranslateHandler {
	return &TranslateHandler{
		pipeline: pipeline,
		log:      log,
	}
}

// Translate - multipart: file, source, target, user
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := strings.TrimSpace(r.FormValue("source"))
	target := strings.TrimSpace(r.FormValue("target"))
	if source == "" || target == "" {
		http.Error(w, "missing source or target", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	out := h.pipeline.Run(r.Context(), domain.PassRequest{
		SourceLanguage: source,
		TargetLanguage: target,
		UserID:         strings.TrimSpace(r.FormValue("user")),
		Audio:          data,
		AudioExt:       filepath.Ext(header.Filename),
	})

	if out.Err != nil && statusFor(out.State) >= http.StatusInternalServerError {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "translate pass " + out.PassID + " " + string(out.State),
			Error:   out.Err,
			Service: "linguamate",
		})
	}

	writeJSON(w, statusFor(out.State), out)
}

func statusFor(s domain.State) int {
	switch s {
	case domain.StateCompleted:
		return http.StatusOK
	case domain.StateRejected, domain.StateFailedNoAudio:
		return http.StatusBadRequest
	case domain.StateFailedUnrecognized:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func (h *TranslateHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, languages.All())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
