package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
)

// Response is the envelope every endpoint answers with: the payload under
// "data" and a list of human-readable messages under "errors". Exactly one of
// the two is populated.
type Response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

// WriteData writes a success envelope with the given status code.
func WriteData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data, Errors: []string{}})
}

// WriteErrors writes a failure envelope.
func WriteErrors(w http.ResponseWriter, status int, messages []string) {
	writeJSON(w, status, Response{Data: nil, Errors: messages})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header has already been sent; an encode failure here cannot be
	// reported to the client anymore.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a service error onto the envelope. Validation failures
// surface every collected message; everything else is a single-message list.
// Business failures answer 400 across the board, with 401/403 reserved for
// authentication and authorization.
func WriteError(w http.ResponseWriter, err error) {
	var validation *apperrors.ValidationErrors
	if errors.As(err, &validation) {
		WriteErrors(w, http.StatusBadRequest, validation.Messages)
		return
	}

	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		WriteErrors(w, http.StatusBadRequest, []string{notFound.Error()})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrUnauthorized):
		WriteErrors(w, http.StatusUnauthorized, []string{err.Error()})
		return
	case errors.Is(err, apperrors.ErrForbidden):
		WriteErrors(w, http.StatusForbidden, []string{err.Error()})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteErrors(w, appErr.StatusCode, []string{appErr.Error()})
		return
	}

	WriteErrors(w, http.StatusBadRequest, []string{err.Error()})
}
