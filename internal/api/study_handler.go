package api

import (
	"net/http"
	"time"

	"github.com/YiniRuohong/wordflow/internal/scheduler"
	"github.com/YiniRuohong/wordflow/internal/stats"
)

type studyHandler struct {
	app *App
}

// queueInfo echoes the effective options a /study/next call resolved to, so
// a client can tell a caller-supplied limit from a defaulted one.
type queueInfo struct {
	Limit          int  `json:"limit"`
	NewLimit       int  `json:"new_limit"`
	IncludeRolling bool `json:"include_rolling"`
}

type nextQueueResponse struct {
	Cards     []scheduler.QueueCard `json:"cards"`
	Stats     scheduler.QueueStats  `json:"stats"`
	SessionID string                `json:"session_id"`
	QueueInfo queueInfo             `json:"queue_info"`
}

func (h *studyHandler) next(w http.ResponseWriter, r *http.Request) {
	opts := scheduler.Options{
		Limit:          queryIntPtr(r, "limit"),
		NewLimit:       queryInt(r, "new_limit", scheduler.DefaultNewLimit),
		IncludeRolling: queryBoolPtr(r, "include_rolling"),
		WordbookID:     queryIntPtr(r, "wordbook_id"),
	}

	result, err := h.app.Scheduler.NextQueue(r.Context(), opts)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}

	cards := result.Cards
	if cards == nil {
		cards = []scheduler.QueueCard{}
	}
	RespondWithJSON(w, r, http.StatusOK, nextQueueResponse{
		Cards:     cards,
		Stats:     result.Stats,
		SessionID: result.SessionID.String(),
		QueueInfo: queueInfo{
			Limit:          effectiveLimit(opts.Limit),
			NewLimit:       opts.NewLimit,
			IncludeRolling: opts.IncludeRolling == nil || *opts.IncludeRolling,
		},
	})
}

// effectiveLimit mirrors scheduler.Options.limit()'s clamp without reaching
// into the package's unexported method, so queue_info echoes the same value
// NextQueue actually used.
func effectiveLimit(limit *int) int {
	if limit == nil {
		return scheduler.DefaultLimit
	}
	switch {
	case *limit < 0:
		return scheduler.DefaultLimit
	case *limit > scheduler.MaxLimit:
		return scheduler.MaxLimit
	default:
		return *limit
	}
}

// reviewRequest is POST /review's body.
type reviewRequest struct {
	CardID    int  `json:"card_id" validate:"required"`
	Grade     int  `json:"grade" validate:"min=0,max=3"`
	ElapsedMs *int `json:"elapsed_ms"`
}

type reviewResult struct {
	CardID       int       `json:"card_id"`
	Due          time.Time `json:"due"`
	Interval     int       `json:"interval"`
	Ease         float64   `json:"ease"`
	Reps         int       `json:"reps"`
	Lapses       int       `json:"lapses"`
	PrevInterval int       `json:"prev_interval"`
	NewInterval  int       `json:"new_interval"`
}

type reviewResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Result  reviewResult `json:"result"`
}

func (h *studyHandler) review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}
	if err := ValidateStruct(req); err != nil {
		WriteError(w, r, h.app.Logger, decodeErr(err))
		return
	}

	state, rev, err := h.app.Reviewer.Submit(r.Context(), req.CardID, req.Grade, req.ElapsedMs, time.Now().UTC())
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, reviewResponse{
		Success: true,
		Message: "review recorded",
		Result: reviewResult{
			CardID:       state.CardID,
			Due:          state.Due,
			Interval:     state.Interval,
			Ease:         state.Ease,
			Reps:         state.Reps,
			Lapses:       state.Lapses,
			PrevInterval: rev.PrevInterval,
			NewInterval:  rev.NewInterval,
		},
	})
}

func (h *studyHandler) today(w http.ResponseWriter, r *http.Request) {
	today, err := h.app.Stats.Today(r.Context(), queryIntPtr(r, "wordbook_id"))
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, today)
}

func (h *studyHandler) progress(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	progress, err := h.app.Stats.Progress(r.Context(), queryIntPtr(r, "wordbook_id"), days)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, progress)
}

func (h *studyHandler) dueForecast(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	forecast, err := h.app.Stats.DueForecast(r.Context(), queryIntPtr(r, "wordbook_id"), days)
	if err != nil {
		WriteError(w, r, h.app.Logger, err)
		return
	}
	if forecast == nil {
		forecast = []stats.ForecastBucket{}
	}
	RespondWithJSON(w, r, http.StatusOK, forecast)
}
