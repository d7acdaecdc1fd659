package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// errBadRequest is the sentinel every handler-level input error (malformed
// path param, unparseable JSON body, failed validator.Struct) wraps, so
// MapError routes them all to BadInput without the handler needing to know
// the HTTP status itself.
var errBadRequest = errors.New("bad request")

// errBadPathParam reports a missing or non-numeric path parameter.
func errBadPathParam(name string) error {
	return fmt.Errorf("%w: invalid path parameter %q", errBadRequest, name)
}

// decodeErr wraps a JSON-decode or validation failure as a BadInput error.
func decodeErr(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// errUploadTooLarge is decodeErr's cause when an uploaded file exceeds
// maxUploadBytes.
var errUploadTooLarge = errors.New("uploaded file exceeds the size limit")

// ErrorResponse is §7's uniform error body: {error:{kind, message, details?}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// apiError carries the HTTP status alongside the body MapError produced, so
// WriteError never needs to re-derive it.
type apiError struct {
	status int
	body   ErrorBody
}

// MapError translates a Store/domain error into §7's error kind taxonomy.
// Kinds are reported exactly as named there; unrecognized errors fall back
// to Fatal/500 rather than leaking an internal type or message.
func MapError(err error) apiError {
	switch {
	case errors.Is(err, errBadRequest):
		return apiError{status: http.StatusBadRequest, body: ErrorBody{Kind: "BadInput", Message: err.Error()}}
	case errors.Is(err, store.ErrNotFound):
		return apiError{status: http.StatusNotFound, body: ErrorBody{Kind: "NotFound", Message: "the requested resource does not exist"}}
	case errors.Is(err, store.ErrPreconditionFailed):
		return apiError{status: http.StatusPreconditionFailed, body: ErrorBody{Kind: "PreconditionFailed", Message: "a precondition for this operation is not met"}}
	case errors.Is(err, store.ErrDuplicate):
		return apiError{status: http.StatusConflict, body: ErrorBody{Kind: "Conflict", Message: "this operation conflicts with existing state"}}
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrWordbookNameEmpty),
		errors.Is(err, domain.ErrWordLemmaEmpty),
		errors.Is(err, domain.ErrWordWordbookEmpty),
		errors.Is(err, domain.ErrCardTemplateEmpty),
		errors.Is(err, domain.ErrCardWordEmpty),
		errors.Is(err, domain.ErrInvalidCEFR),
		errors.Is(err, domain.ErrInvalidTemplate):
		return apiError{status: http.StatusBadRequest, body: ErrorBody{Kind: "BadInput", Message: err.Error()}}
	case errors.Is(err, domain.ErrInvalidGrade):
		return apiError{status: http.StatusUnprocessableEntity, body: ErrorBody{Kind: "BadInput", Message: err.Error()}}
	case errors.Is(err, store.ErrTransient):
		return apiError{status: http.StatusServiceUnavailable, body: ErrorBody{Kind: "Transient", Message: "the store is temporarily unavailable, retry shortly"}}
	default:
		return apiError{status: http.StatusInternalServerError, body: ErrorBody{Kind: "Fatal", Message: "an internal error occurred"}}
	}
}
