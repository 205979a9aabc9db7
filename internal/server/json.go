package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/muralmadness/hunt/internal/hunt"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps gateway failures onto the HTTP surface: rule
// rejections are 409 with the violated invariant verbatim, unknown teams
// 404, store contention 503 (retryable), anything else an opaque 500.
func writeGameError(w http.ResponseWriter, err error) {
	var pre *hunt.PreconditionError
	switch {
	case errors.As(err, &pre):
		writeError(w, http.StatusConflict, pre.Reason)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "team not found")
	case errors.Is(err, ErrContention):
		writeError(w, http.StatusServiceUnavailable, "too much contention, try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
