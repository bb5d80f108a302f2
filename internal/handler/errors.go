package handler

import (
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/planner/internal/domain"
)

// Error codes carried in ErrorResponse bodies.
const (
	codeNotFound   = "not_found"
	codeValidation = "validation_error"
	codeBadRequest = "bad_request"
	codeTooLarge   = "payload_too_large"
	codeInternal   = "internal_error"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

func errorBody(code, message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: code, Message: message}}
}

// writeServiceError maps a service error to a response. The caller supplies
// the not-found message (e.g. "trip not found") because the handler is the
// layer that knows what was being looked up. Unknown errors are logged and
// reported as a generic 500 so internals never leak.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, validationMessage(err)))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, notFound))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody(codeInternal, "internal server error"))
	}
}

// validationMessage extracts the human-readable part of a wrapped
// domain.ErrValidation.
// e.g. "service.X: validation error: title must be at least 4 characters"
// → "title must be at least 4 characters"
func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
