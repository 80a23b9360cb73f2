package delivery

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/ports"
)

// DefaultHistoryLimit - сколько последних записей показывать
const DefaultHistoryLimit = 5

type HistoryService interface {
	GetRecentRecordings(ctx context.Context, limit int) ([]ports.Recording, error)
	GetMLInsights(ctx context.Context) (*ports.MLInsights, error)
	GetUserStats(ctx context.Context, userID string) (*ports.UserStats, error)
	StorageStats(ctx context.Context, dbFile, recordingsDir string) (*domain.StorageStats, error)
}

type HistoryHandler struct {
	svc           HistoryService
	dbFile        string
	recordingsDir string
	log           *logger.ZapLogger
}

// dbFile пустой, если база не файловая
func NewHistoryHandler(svc HistoryService, dbFile, recordingsDir string, log *logger.ZapLogger) *HistoryHandler {
	return &HistoryHandler{
		svc:           svc,
		dbFile:        dbFile,
		recordingsDir: recordingsDir,
		log:           log,
	}
}

func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := h.svc.GetRecentRecordings(r.Context(), limit)
	if err != nil {
		h.dbError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *HistoryHandler) Insights(w http.ResponseWriter, r *http.Request) {
	ins, err := h.svc.GetMLInsights(r.Context())
	if err != nil {
		h.dbError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

func (h *HistoryHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		user = ports.DefaultUserID
	}

	st, err := h.svc.GetUserStats(r.Context(), user)
	if err != nil {
		h.dbError(w, err)
		return
	}
	if st == nil {
		http.Error(w, "no stats for user", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *HistoryHandler) Storage(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.StorageStats(r.Context(), h.dbFile, h.recordingsDir)
	if err != nil {
		h.dbError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// File отдаёт аудио из каталога записей, только по имени файла.
func (h *HistoryHandler) File(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}
	switch filepath.Ext(name) {
	case ".wav", ".ogg", ".mp3":
	default:
		http.Error(w, "not an audio file", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.recordingsDir, name))
}

func (h *HistoryHandler) dbError(w http.ResponseWriter, err error) {
	h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err, Service: "linguamate"})
	http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
}
