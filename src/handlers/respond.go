package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ledger-server/src/ledger"
	"ledger-server/src/logger"
)

const dateFormat = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the ledger error taxonomy onto HTTP status codes and logs
// through the request-scoped logger. Caller-fixable errors carry their
// message to the client; internal failures do not.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromContext(r.Context())
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	log.Warn().Err(err).Msg(msg)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var (
		validation *ledger.ValidationError
		refs       *ledger.ReferentialConflict
		stale      *ledger.StaleReferenceError
		state      *ledger.InvalidStateError
		busy       *ledger.StoreBusyError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &refs), errors.As(err, &stale), errors.As(err, &state):
		return http.StatusConflict
	case errors.As(err, &busy):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// parseDate reads an ISO date, rejecting anything else as a ValidationError
// so it surfaces as 400.
func parseDate(value, name string) (time.Time, error) {
	t, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Reason: name + " must be a date in YYYY-MM-DD form"}
	}
	return t, nil
}
