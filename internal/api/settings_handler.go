package api

import (
	"encoding/json"
	"net/http"
)

// settingsKey is the single settings_store row this handler reads/writes.
// §3 describes Settings as one process-wide opaque record; Store only
// exposes per-key get/put, so the whole record is kept JSON-encoded under
// one well-known key rather than spreading it across many rows.
const settingsKey = "app"

type settingsHandler struct {
	app *App
}

func (h *settingsHandler) get(w http.ResponseWriter, r *http.Request) {
	raw, ok, err := h.app.Store.GetSetting(r.Context(), settingsKey)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	if !ok {
		RespondWithJSON(w, r, http.StatusOK, map[string]any{})
		return
	}
	var settings map[string]any
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	RespondWithJSON(w, r, http.StatusOK, settings)
}

func (h *settingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var settings map[string]any
	if err := DecodeJSON(r, &settings); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	if err := h.app.Store.PutSetting(r.Context(), settingsKey, string(raw)); err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, settings)
}
