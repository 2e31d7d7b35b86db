package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

func ListTransactions(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := transactionFilter(r)
		if err != nil {
			writeError(w, r, err, "invalid transaction filter")
			return
		}
		txs, err := svc.ListTransactions(r.Context(), f)
		if err != nil {
			writeError(w, r, err, "failed to list transactions")
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func GetTransaction(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "transaction_id")
		if err != nil {
			writeError(w, r, err, "invalid transaction id")
			return
		}
		tx, err := svc.GetTransaction(r.Context(), id)
		if err != nil {
			writeError(w, r, err, "failed to get transaction")
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

// UpdateDescription edits the only mutable field of a committed transaction.
func UpdateDescription(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "transaction_id")
		if err != nil {
			writeError(w, r, err, "invalid transaction id")
			return
		}
		var req struct {
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode description request")
			return
		}
		tx, err := svc.UpdateTransactionDescription(r.Context(), id, req.Description)
		if err != nil {
			writeError(w, r, err, "failed to update description")
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

// ReverseTransaction appends an offsetting entry; committed rows are never
// edited or deleted.
func ReverseTransaction(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "transaction_id")
		if err != nil {
			writeError(w, r, err, "invalid transaction id")
			return
		}
		var req struct {
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode reversal request")
			return
		}
		rev, err := svc.ReverseTransaction(r.Context(), id, req.Description)
		if err != nil {
			writeError(w, r, err, "failed to reverse transaction")
			return
		}
		writeJSON(w, http.StatusCreated, rev)
	}
}

func transactionFilter(r *http.Request) (ledger.TransactionFilter, error) {
	var f ledger.TransactionFilter
	q := r.URL.Query()
	if raw := q.Get("account_id"); raw != "" {
		id, err := queryID(raw, "account_id")
		if err != nil {
			return f, err
		}
		f.AccountID = &id
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := queryID(raw, "category_id")
		if err != nil {
			return f, err
		}
		f.CategoryID = &id
	}
	if raw := q.Get("type"); raw != "" {
		kind := models.TransactionKind(raw)
		if !kind.Valid() {
			return f, &ledger.ValidationError{Reason: "unknown transaction type " + raw}
		}
		f.Kind = &kind
	}
	if raw := q.Get("from"); raw != "" {
		t, err := parseDate(raw, "from")
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := parseDate(raw, "to")
		if err != nil {
			return f, err
		}
		f.To = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, &ledger.ValidationError{Reason: "limit must be a non-negative integer"}
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, &ledger.ValidationError{Reason: "offset must be a non-negative integer"}
		}
		f.Offset = n
	}
	return f, nil
}

func queryID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ledger.ValidationError{Reason: name + " must be a positive integer"}
	}
	return id, nil
}
