package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starford/contractviewer/internal/apperr"
)

// maxBodyBytes caps every request body, uploads included.
const maxBodyBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// decodeJSON reads a size-limited JSON body into v. Syntax and type errors
// wrap apperr.ErrInvalidJSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidJSON, err)
	}
	return nil
}

// errResponse is the body of every API error except the fetch proxy's 500.
type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
