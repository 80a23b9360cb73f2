package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// TranslateRateLimit - проходов в минуту с одного IP
const TranslateRateLimit = 10

func NewRouter(hTranslate *TranslateHandler, hHistory *HistoryHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	RegisterRoutes(r, hTranslate, hHistory)
	return r
}

func RegisterRoutes(r chi.Router, hTranslate *TranslateHandler, hHistory *HistoryHandler) {
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Group(func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- перевод ---
		pr.Get("/languages", hTranslate.Languages)
		pr.With(httprate.LimitByIP(TranslateRateLimit, time.Minute)).
			Post("/translate", hTranslate.Translate)

		// --- история и аналитика ---
		pr.Get("/recordings", hHistory.Recent)
		pr.Get("/insights", hHistory.Insights)
		pr.Get("/stats", hHistory.UserStats)
		pr.Get("/storage", hHistory.Storage)
		pr.Get("/files/{name}", hHistory.File)
	})
}
