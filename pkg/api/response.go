package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fadedpez/relancina/internal/types"
)

// respond writes {"success": true, key: value}
func respond(w http.ResponseWriter, status int, key string, value any) {
	body := map[string]any{"success": true}
	if key != "" {
		body[key] = value
	}
	writeJSON(w, status, body)
}

// respondError writes the error envelope with the status for its code
func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := types.ErrInternalError
	var gameErr *types.GameError
	if errors.As(err, &gameErr) {
		code = gameErr.Code
	}

	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.LogError(err)
	}

	msg := err.Error()
	if gameErr != nil {
		msg = gameErr.Message
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"code":    code,
		"error":   msg,
	})
}

func statusFor(code types.ErrorCode) int {
	switch code {
	case types.ErrNotFound:
		return http.StatusNotFound
	case types.ErrValidation:
		return http.StatusBadRequest
	case types.ErrIllegalState:
		return http.StatusConflict
	case types.ErrResourceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return types.WrapError(types.ErrValidation, "invalid JSON body", err)
	}
	return nil
}
