package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is never physically deleted once referenced by a transaction;
// it is soft-disabled instead (Active = false).
type Account struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
