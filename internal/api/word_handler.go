package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/YiniRuohong/wordflow/internal/parser"
	"github.com/YiniRuohong/wordflow/internal/search"
	"github.com/YiniRuohong/wordflow/internal/store"
)

const maxUploadBytes = 32 << 20 // 32MiB, matches the teacher's multipart cap

type wordHandler struct {
	app *App
}

// bulkImportResponse is POST /words/bulk's 202 body.
type bulkImportResponse struct {
	ImportID int    `json:"import_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

func (h *wordHandler) bulkImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	if len(data) > maxUploadBytes {
		WriteError(w, r, h.app.Logger, decodeErr(errUploadTooLarge))
		return
	}

	var wordbookID *int
	if raw := r.FormValue("wordbook_id"); raw != "" {
		id, convErr := strconv.Atoi(raw)
		if convErr != nil {
			WriteError(w, r, h.app.Logger, decodeErr(convErr))
			return
		}
		wordbookID = &id
	}

	format := parser.Format(r.FormValue("format"))
	if format == "" {
		format = parser.FormatAuto
	}

	importID, err := h.app.Importer.Start(r.Context(), wordbookID, header.Filename, data, format)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusAccepted, bulkImportResponse{
		ImportID: importID,
		Status:   "pending",
		Message:  "import accepted",
	})
}

func (h *wordHandler) importStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIntParam(r, "id")
	if !ok {
		WriteError(w, r, h.app.Logger, errBadPathParam("id"))
		return
	}
	job, err := h.app.Importer.Progress(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, job)
}

func (h *wordHandler) importList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	jobs, err := h.app.Importer.List(r.Context(), limit)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, jobs)
}

// searchResponse is GET /words/search's body.
type searchResponse struct {
	Words   []search.Hit `json:"words"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

func (h *wordHandler) search(w http.ResponseWriter, r *http.Request) {
	wordbookID, ok, err := h.resolveWordbook(r)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	if !ok {
		WriteError(w, r, h.app.Logger, store.ErrNoActiveWordbook)
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)

	hits, total, err := h.app.Search.Query(r.Context(), search.Filter{
		WordbookID: wordbookID,
		Q:          r.URL.Query().Get("q"),
		Lesson:     r.URL.Query().Get("lesson"),
		CEFR:       r.URL.Query().Get("cefr"),
		POS:        r.URL.Query().Get("pos"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, searchResponse{Words: hits, Total: total, Page: page, PerPage: perPage})
}

func (h *wordHandler) suggest(w http.ResponseWriter, r *http.Request) {
	wordbookID, ok, err := h.resolveWordbook(r)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	if !ok {
		WriteError(w, r, h.app.Logger, store.ErrNoActiveWordbook)
		return
	}

	limit := queryInt(r, "limit", 10)
	suggestions, err := h.app.Search.Suggest(r.Context(), wordbookID, r.URL.Query().Get("q"), limit)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, suggestions)
}

func (h *wordHandler) getWord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIntParam(r, "id")
	if !ok {
		WriteError(w, r, h.app.Logger, errBadPathParam("id"))
		return
	}
	word, err := h.app.Store.GetWord(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, word)
}

// globalStatsResponse is GET /stats's body: the active wordbook's aggregates.
type globalStatsResponse struct {
	TotalWords int            `json:"total_words"`
	ByLesson   map[string]int `json:"by_lesson"`
	ByCEFR     map[string]int `json:"by_cefr"`
	ByPOS      map[string]int `json:"by_pos"`
}

func (h *wordHandler) globalStats(w http.ResponseWriter, r *http.Request) {
	wordbookID, ok, err := h.resolveWordbook(r)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	if !ok {
		WriteError(w, r, h.app.Logger, store.ErrNoActiveWordbook)
		return
	}
	result, err := h.app.Store.WordbookStats(r.Context(), wordbookID)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, globalStatsResponse{
		TotalWords: result.TotalWords,
		ByLesson:   result.ByLesson,
		ByCEFR:     result.ByCEFR,
		ByPOS:      result.ByPOS,
	})
}

// resolveWordbook reads an explicit ?wordbook_id= query param, falling back
// to the active wordbook when absent — the same convention Scheduler and
// Stats use internally.
func (h *wordHandler) resolveWordbook(r *http.Request) (int, bool, error) {
	if raw := r.URL.Query().Get("wordbook_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false, decodeErr(err)
		}
		return id, true, nil
	}
	wb, err := h.app.Store.GetActiveWordbook(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoActiveWordbook) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return wb.ID, true, nil
}
