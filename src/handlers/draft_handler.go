package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

type draftRequest struct {
	AccountID       int64           `json:"account_id"`
	TargetAccountID *int64          `json:"target_account_id"`
	CategoryID      *int64          `json:"category_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
}

func (req *draftRequest) input() (ledger.DraftInput, error) {
	var date time.Time
	if req.Date != "" {
		var err error
		if date, err = parseDate(req.Date, "date"); err != nil {
			return ledger.DraftInput{}, err
		}
	}
	return ledger.DraftInput{
		AccountID:       req.AccountID,
		TargetAccountID: req.TargetAccountID,
		CategoryID:      req.CategoryID,
		Kind:            models.TransactionKind(req.Type),
		Amount:          req.Amount,
		Description:     req.Description,
		Date:            date,
	}, nil
}

func CreateDraft(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req draftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode draft request")
			return
		}
		in, err := req.input()
		if err != nil {
			writeError(w, r, err, "invalid draft date")
			return
		}
		d, err := svc.SaveDraft(r.Context(), 0, in)
		if err != nil {
			writeError(w, r, err, "failed to create draft")
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func UpdateDraft(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "draft_id")
		if err != nil {
			writeError(w, r, err, "invalid draft id")
			return
		}
		var req draftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode draft request")
			return
		}
		in, err := req.input()
		if err != nil {
			writeError(w, r, err, "invalid draft date")
			return
		}
		d, err := svc.SaveDraft(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err, "failed to update draft")
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func GetDraft(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "draft_id")
		if err != nil {
			writeError(w, r, err, "invalid draft id")
			return
		}
		d, err := svc.GetDraft(r.Context(), id)
		if err != nil {
			writeError(w, r, err, "failed to get draft")
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func ListDrafts(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f ledger.DraftFilter
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := models.DraftStatus(raw)
			f.Status = &status
		}
		if raw := r.URL.Query().Get("account_id"); raw != "" {
			id, err := queryID(raw, "account_id")
			if err != nil {
				writeError(w, r, err, "invalid account id")
				return
			}
			f.AccountID = &id
		}
		drafts, err := svc.ListDrafts(r.Context(), f)
		if err != nil {
			writeError(w, r, err, "failed to list drafts")
			return
		}
		writeJSON(w, http.StatusOK, drafts)
	}
}

func CommitDraft(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "draft_id")
		if err != nil {
			writeError(w, r, err, "invalid draft id")
			return
		}
		tx, err := svc.CommitDraft(r.Context(), id)
		if err != nil {
			writeError(w, r, err, "failed to commit draft")
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func DiscardDraft(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "draft_id")
		if err != nil {
			writeError(w, r, err, "invalid draft id")
			return
		}
		if err := svc.DiscardDraft(r.Context(), id); err != nil {
			writeError(w, r, err, "failed to discard draft")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "draft discarded"})
	}
}
