package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tidylist/tidylist/internal/domain"
)

// errorBody is the wire shape of a failure.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code and body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeData wraps a payload in the success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

// writeList wraps a collection payload and its item count in the success envelope.
func writeList(w http.ResponseWriter, status int, data any, count int) {
	writeJSON(w, status, map[string]any{"success": true, "count": count, "data": data})
}

// writeError sends a structured error payload with the given status code.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": errorBody{Kind: kind, Message: message}})
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError translates a typed service failure into its HTTP
// response. Services only signal typed errors; this is the single place that
// renders them on the wire.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrUnknownSubject):
		writeError(w, http.StatusUnauthorized, authKind(err), "Not authorized to access this resource.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NotFound", "Todo not found.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "ValidationError", err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "DuplicateEmail", "An account with that email already exists.")
	default:
		slog.Error("unexpected service error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal", "An unexpected error occurred. Please try again.")
	}
}

// authKind names the authentication failure for the error payload.
func authKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrExpiredToken):
		return "ExpiredToken"
	case errors.Is(err, domain.ErrInvalidToken):
		return "InvalidToken"
	case errors.Is(err, domain.ErrUnknownSubject):
		return "UnknownSubject"
	default:
		return "MissingCredential"
	}
}
