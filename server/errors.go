package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/arllen133/recipes/errors"
	"github.com/google/uuid"
)

// WriteError writes an ErrorResponse with the request id of r.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code apperrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := requestIDFrom(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	respondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// statusFor maps an error code to its HTTP status.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders an error returned by a service. Internal
// causes are logged, not exposed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	status := statusFor(code)

	message := "Internal server error"
	var details map[string]any
	var se *apperrors.StructuredError
	if status != http.StatusInternalServerError {
		if errors.As(err, &se) {
			message = se.Message
			details = se.Context
		}
	} else {
		slog.ErrorContext(r.Context(), "request failed",
			"requestID", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	WriteError(w, r, status, code, message, status >= http.StatusInternalServerError, details)
}

// respondJSON encodes data before writing headers so encoding failures can
// still produce a 500.
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}
