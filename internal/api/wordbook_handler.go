package api

import (
	"net/http"

	"github.com/YiniRuohong/wordflow/internal/domain"
)

type wordbookHandler struct {
	app *App
}

// createWordbookRequest is the body for POST /wordbooks.
type createWordbookRequest struct {
	Name        string `json:"name" validate:"required"`
	Language    string `json:"language" validate:"required"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Version     string `json:"version"`
}

func (h *wordbookHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createWordbookRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	if err := ValidateStruct(req); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}

	wb, err := h.app.Store.CreateWordbook(r.Context(), domain.WordbookSpec{
		Name:        req.Name,
		Language:    req.Language,
		Description: req.Description,
		Author:      req.Author,
		Version:     req.Version,
	})
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusCreated, wb)
}

func (h *wordbookHandler) list(w http.ResponseWriter, r *http.Request) {
	wbs, err := h.app.Store.ListWordbooks(r.Context())
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, wbs)
}

func (h *wordbookHandler) active(w http.ResponseWriter, r *http.Request) {
	wb, err := h.app.Store.GetActiveWordbook(r.Context())
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, wb)
}

func (h *wordbookHandler) activate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIntParam(r, "id")
	if !ok {
		WriteError(w, r, h.app.Logger, errBadPathParam("id"))
		return
	}
	wb, err := h.app.Store.ActivateWordbook(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"message":  "wordbook activated",
		"wordbook": wb,
	})
}

func (h *wordbookHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIntParam(r, "id")
	if !ok {
		WriteError(w, r, h.app.Logger, errBadPathParam("id"))
		return
	}
	if err := h.app.Store.DeleteWordbook(r.Context(), id); err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, map[string]any{"message": "wordbook deleted"})
}

// wordbookStatsResponse is GET /wordbooks/{id}/stats's body.
type wordbookStatsResponse struct {
	Wordbook   *domain.Wordbook `json:"wordbook"`
	TotalWords int              `json:"total_words"`
	ByCEFR     map[string]int   `json:"by_cefr"`
	ByPOS      map[string]int   `json:"by_pos"`
	ByLesson   map[string]int   `json:"by_lesson"`
}

func (h *wordbookHandler) stats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIntParam(r, "id")
	if !ok {
		WriteError(w, r, h.app.Logger, errBadPathParam("id"))
		return
	}
	wb, err := h.app.Store.GetWordbook(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	result, err := h.app.Store.WordbookStats(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, wordbookStatsResponse{
		Wordbook:   wb,
		TotalWords: result.TotalWords,
		ByCEFR:     result.ByCEFR,
		ByPOS:      result.ByPOS,
		ByLesson:   result.ByLesson,
	})
}
