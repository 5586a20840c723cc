package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/castlelock/authcore"
)

// envelope is the single response shape of the API.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeEngineError maps an engine error onto an HTTP status and writes the
// failure envelope. Unknown errors become an opaque 500 so internals do
// not leak to clients.
func writeEngineError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("unhandled engine error", "error", err)
		message = "internal server error"
	}
	writeFailure(w, status, message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, authcore.ErrInputRequired),
		errors.Is(err, authcore.ErrPasswordPolicy):
		return http.StatusBadRequest
	case errors.Is(err, authcore.ErrInvalidCredentials),
		errors.Is(err, authcore.ErrRefreshInvalid),
		errors.Is(err, authcore.ErrRefreshExpired),
		errors.Is(err, authcore.ErrRefreshReuse),
		errors.Is(err, authcore.ErrTokenExpired),
		errors.Is(err, authcore.ErrTokenInvalid),
		errors.Is(err, authcore.ErrTokenWrongPurpose):
		return http.StatusUnauthorized
	case errors.Is(err, authcore.ErrAccountLocked),
		errors.Is(err, authcore.ErrAccountUnverified):
		return http.StatusForbidden
	case errors.Is(err, authcore.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, authcore.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, authcore.ErrMailUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, authcore.ErrStoreUnavailable),
		errors.Is(err, authcore.ErrEngineNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
