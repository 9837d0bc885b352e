package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authgate/authgate/internal/datafilter"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForGuardError maps integrity-guard rejections to HTTP statuses.
// ok is false for errors the guard did not produce.
func statusForGuardError(err error) (int, bool) {
	var conflict *datafilter.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict, true
	}
	var notFound *datafilter.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, true
	}
	return 0, false
}
