package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ledger-server/src/ledger"
)

func ProfitAndLoss(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			writeError(w, r, err, "invalid report range")
			return
		}
		report, err := svc.ProfitAndLoss(r.Context(), start, end)
		if err != nil {
			writeError(w, r, err, "failed to compute profit and loss")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func AccountSummary(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			writeError(w, r, err, "invalid report range")
			return
		}
		rows, err := svc.AccountSummary(r.Context(), start, end)
		if err != nil {
			writeError(w, r, err, "failed to compute account summary")
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func MonthlySummary(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "year must be an integer"}, "invalid year")
			return
		}
		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "month must be an integer"}, "invalid month")
			return
		}
		report, err := svc.MonthlySummary(r.Context(), year, time.Month(month))
		if err != nil {
			writeError(w, r, err, "failed to compute monthly summary")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func dateRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	if start, err = parseDate(q.Get("start"), "start"); err != nil {
		return
	}
	end, err = parseDate(q.Get("end"), "end")
	return
}
