// Package handler is the HTTP layer: it parses requests, calls the service
// layer, and writes the JSON envelopes. Every success body carries
// success:true; every error body is {success:false, error}.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/raicdev/frea/internal/apperror"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be set before the first body write.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto the HTTP taxonomy and sends the error
// envelope. Unknown errors become a generic 500 so internal detail never
// reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrRateLimited):
			status = http.StatusTooManyRequests
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, errorResponse{Success: false, Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Success: false,
		Error:   "An internal error occurred",
	})
}
