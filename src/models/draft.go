package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftStatus is the lifecycle tag of a transaction draft.
// Editing is the only non-terminal state.
type DraftStatus string

const (
	DraftEditing   DraftStatus = "editing"
	DraftCommitted DraftStatus = "committed"
	DraftDiscarded DraftStatus = "discarded"
)

// Draft is a mutable, not-yet-committed transaction. Committed drafts are
// retained as provenance for the transaction they produced.
type Draft struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"account_id"`
	TargetAccountID *int64          `json:"target_account_id"`
	CategoryID      *int64          `json:"category_id"`
	Kind            TransactionKind `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	Status          DraftStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
