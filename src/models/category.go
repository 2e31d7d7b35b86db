package models

import "time"

// Category labels income or expense transactions. Transfers are never
// categorized, so Kind is restricted to income and expense.
type Category struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      TransactionKind `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}
