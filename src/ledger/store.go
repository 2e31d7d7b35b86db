package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ledger-server/src/models"
)

// TransactionFilter narrows ListTransactions. AccountID matches the source
// or the target side. From/To bound the effective date, inclusive.
type TransactionFilter struct {
	AccountID  *int64
	CategoryID *int64
	Kind       *models.TransactionKind
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// DraftFilter narrows ListDrafts.
type DraftFilter struct {
	AccountID *int64
	Status    *models.DraftStatus
}

// Store is the persistence contract for the ledger engine. Committed
// transactions are append-only: no Store method updates or deletes a
// committed row except UpdateTransactionDescription. Implementations must
// run each method in a single store-level transaction with at least
// read-committed isolation, and PromoteDraft must perform its re-validation,
// transaction insert and draft state change atomically.
type Store interface {
	CreateAccount(ctx context.Context, name string, opening decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	SetAccountActive(ctx context.Context, id int64, active bool) (*models.Account, error)

	CreateCategory(ctx context.Context, name string, kind models.TransactionKind) (*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error)
	// DeleteCategory fails with ReferentialConflict while the category is
	// referenced by any committed transaction or any editing draft.
	DeleteCategory(ctx context.Context, id int64) error

	CreateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error)
	GetDraft(ctx context.Context, id int64) (*models.Draft, error)
	UpdateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error)
	ListDrafts(ctx context.Context, f DraftFilter) ([]models.Draft, error)
	// DiscardDraft moves an editing draft to its terminal discarded state.
	DiscardDraft(ctx context.Context, id int64) error
	// PromoteDraft re-validates the draft's references against current
	// account/category state and, if valid, inserts one committed
	// transaction with a fresh id and commit timestamp and marks the draft
	// committed. On any failure the draft remains editing.
	PromoteDraft(ctx context.Context, id int64) (*models.Transaction, error)

	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error)
	UpdateTransactionDescription(ctx context.Context, id int64, description string) (*models.Transaction, error)
	// InsertReversal appends a committed transaction offsetting the given
	// one. The reversal carries the original's kind, accounts, category,
	// amount and effective date, has no originating draft, and points back
	// at the reversed row.
	InsertReversal(ctx context.Context, transactionID int64, description string) (*models.Transaction, error)

	// HighWaterMark returns the largest committed transaction id, 0 when
	// the ledger is empty. It increases monotonically with every commit and
	// keys the balance memo cache.
	HighWaterMark(ctx context.Context) (int64, error)
}
