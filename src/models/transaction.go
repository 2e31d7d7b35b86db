package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is one of the three fixed transaction kinds.
type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense || k == KindTransfer
}

// Transaction is a committed ledger entry. Every field except Description is
// immutable after commit; corrections are made by inserting a reversal row
// (Reverses points at the row being offset), never by editing in place.
type Transaction struct {
	ID              int64           `json:"id"`
	DraftID         *int64          `json:"draft_id"`
	AccountID       int64           `json:"account_id"`
	TargetAccountID *int64          `json:"target_account_id"`
	CategoryID      *int64          `json:"category_id"`
	Kind            TransactionKind `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	Reverses        *int64          `json:"reverses"`
	CommittedAt     time.Time       `json:"committed_at"`
}

// Sign is the accumulation factor for this row: reversal rows carry the same
// positive amount as the row they offset and apply with the opposite sign.
func (t *Transaction) Sign() decimal.Decimal {
	if t.Reverses != nil {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}
