package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathUUID binds the named chi path parameter into a UUID the same way
// oapi-codegen's generated wrappers do.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// bindPathUUID writes a 400 and returns false when the parameter is not a UUID.
func bindPathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := pathUUID(r, name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "invalid "+name+": must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes the JSON request body into dst. On failure it writes
// the response and returns false:
//   - oversized body → 413
//   - malformed email field → 422
//   - anything else (empty body, bad JSON, bad timestamp) → 400
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(codeTooLarge, "request body too large"))
	case errors.Is(err, openapi_types.ErrValidationEmail):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, "invalid email address"))
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "request body is required"))
	default:
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "malformed request body: "+err.Error()))
	}
	return false
}

// timestamp accepts RFC 3339 timestamps and bare "YYYY-MM-DD" dates, which
// are read as midnight UTC.
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q: use RFC 3339 or YYYY-MM-DD", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
