package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter assembles the full §6 route table rooted at /api/v1.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(app.Logger))
	r.Use(middleware.Timeout(5 * time.Second))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	wb := &wordbookHandler{app: app}
	wd := &wordHandler{app: app}
	st := &studyHandler{app: app}
	set := &settingsHandler{app: app}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wordbooks", func(r chi.Router) {
			r.Post("/", wb.create)
			r.Get("/", wb.list)
			r.Get("/active", wb.active)
			r.Post("/{id}/activate", wb.activate)
			r.Delete("/{id}", wb.delete)
			r.Get("/{id}/stats", wb.stats)
		})

		r.Post("/words/bulk", wd.bulkImport)
		r.Get("/imports/{id}", wd.importStatus)
		r.Get("/imports", wd.importList)
		r.Get("/words/search", wd.search)
		r.Get("/words/suggest", wd.suggest)
		r.Get("/words/{id}", wd.getWord)
		r.Get("/stats", wd.globalStats)

		r.Get("/study/next", st.next)
		r.Post("/review", st.review)
		r.Get("/study/stats", st.today)
		r.Get("/study/progress", st.progress)
		r.Get("/study/due-forecast", st.dueForecast)

		r.Get("/settings", set.get)
		r.Put("/settings", set.put)
	})

	return r
}

// requestLogger logs one line per request at Info, in the teacher's
// structured-logging idiom rather than chi's plain-text default logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
