package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateStruct runs the shared validator instance over v.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// queryInt reads a query parameter as an int, falling back to def when
// absent or malformed — a malformed value never produces an error.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryIntPtr is like queryInt but returns nil when the parameter is absent,
// so the caller (Scheduler's Options, in particular) can distinguish "not
// set, use the default" from "set to this exact value."
func queryIntPtr(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// queryBoolPtr is queryIntPtr's boolean counterpart, used for
// include_rolling where the caller must be able to distinguish "omitted"
// from "explicitly false."
func queryBoolPtr(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func pathIntParam(r *http.Request, key string) (int, bool) {
	raw := chi.URLParam(r, key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
