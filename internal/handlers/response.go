package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON encodes v and writes it with the given status. Encoding happens
// before anything is written, so on error the response is still untouched
// and the caller can answer with an error instead.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

// WriteError writes a standardised JSON error response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	_ = WriteJSON(w, status, map[string]string{
		"error": msg,
	})
}
