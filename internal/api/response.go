package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/YiniRuohong/wordflow/internal/redact"
)

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

// WriteError maps err to §7's error kind taxonomy, logs the cause
// server-side after passing it through redact.Error, and sends only the safe {error:{kind,message}} body to
// the client — never a stack trace or file path (§7).
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	mapped := MapError(err)
	logLevel := slog.LevelDebug
	if mapped.status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	logger.LogAttrs(r.Context(), logLevel, "request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status", mapped.status),
		slog.String("kind", mapped.body.Kind),
		slog.String("error", redact.Error(err)),
	)
	RespondWithJSON(w, r, mapped.status, ErrorResponse{Error: mapped.body})
}
