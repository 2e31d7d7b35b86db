package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"ledger-server/src/ledger"
)

func CreateAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name           string          `json:"name"`
			OpeningBalance decimal.Decimal `json:"opening_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode create account request")
			return
		}
		acct, err := svc.CreateAccount(r.Context(), req.Name, req.OpeningBalance)
		if err != nil {
			writeError(w, r, err, "failed to create account")
			return
		}
		writeJSON(w, http.StatusCreated, acct)
	}
}

func GetAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "account_id")
		if err != nil {
			writeError(w, r, err, "invalid account id")
			return
		}
		acct, err := svc.GetAccount(r.Context(), id)
		if err != nil {
			writeError(w, r, err, "failed to get account")
			return
		}
		writeJSON(w, http.StatusOK, acct)
	}
}

func ListAccounts(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := svc.ListAccounts(r.Context())
		if err != nil {
			writeError(w, r, err, "failed to list accounts")
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func SetAccountActive(svc *ledger.Service, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "account_id")
		if err != nil {
			writeError(w, r, err, "invalid account id")
			return
		}
		acct, err := svc.SetAccountActive(r.Context(), id, active)
		if err != nil {
			writeError(w, r, err, "failed to change account state")
			return
		}
		writeJSON(w, http.StatusOK, acct)
	}
}

// GetBalance returns the account's current balance, or the balance as of a
// historical date when the as_of query parameter is set.
func GetBalance(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "account_id")
		if err != nil {
			writeError(w, r, err, "invalid account id")
			return
		}
		var balance decimal.Decimal
		if asOf := r.URL.Query().Get("as_of"); asOf != "" {
			date, err := parseDate(asOf, "as_of")
			if err != nil {
				writeError(w, r, err, "invalid as_of date")
				return
			}
			balance, err = svc.ProjectedBalance(r.Context(), id, date)
			if err != nil {
				writeError(w, r, err, "failed to compute projected balance")
				return
			}
		} else {
			balance, err = svc.Balance(r.Context(), id)
			if err != nil {
				writeError(w, r, err, "failed to compute balance")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"account_id": id, "balance": balance})
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ledger.ValidationError{Reason: name + " must be a positive integer"}
	}
	return id, nil
}
