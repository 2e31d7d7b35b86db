// Package ledger implements the bookkeeping engine: accounts and categories,
// the draft lifecycle, committed-transaction append and reversal, balance
// computation, and profit-and-loss reporting. Persistence is behind the
// Store interface; all methods are synchronous and request-scoped.
package ledger

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ledger-server/src/models"
)

const dateFormat = "2006-01-02"

const maxNameLen = 100

type Service struct {
	store Store
	cache *ristretto.Cache
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) (*Service, error) {
	cache, err := newBalanceCache()
	if err != nil {
		return nil, err
	}
	return &Service{store: store, cache: cache, log: log}, nil
}

// dateOnly truncates a timestamp to day granularity in UTC. Effective dates
// carry no time of day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validName(name string) error {
	if name == "" {
		return validationf("name is required")
	}
	if len(name) > maxNameLen {
		return validationf("name exceeds %d characters", maxNameLen)
	}
	return nil
}

func (s *Service) CreateAccount(ctx context.Context, name string, opening decimal.Decimal) (*models.Account, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	acct, err := s.store.CreateAccount(ctx, name, opening)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("account_id", acct.ID).Str("name", acct.Name).Msg("account created")
	return acct, nil
}

func (s *Service) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.store.ListAccounts(ctx)
}

// SetAccountActive disables or re-enables an account. Disabling is always
// allowed; committed history referencing the account stays intact and the
// account can no longer be used by new drafts.
func (s *Service) SetAccountActive(ctx context.Context, id int64, active bool) (*models.Account, error) {
	acct, err := s.store.SetAccountActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("account_id", id).Bool("active", active).Msg("account state changed")
	return acct, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string, kind models.TransactionKind) (*models.Category, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if kind != models.KindIncome && kind != models.KindExpense {
		return nil, validationf("category kind must be income or expense, got %q", kind)
	}
	cat, err := s.store.CreateCategory(ctx, name, kind)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("category_id", cat.ID).Str("name", cat.Name).Str("kind", string(kind)).Msg("category created")
	return cat, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return s.store.RenameCategory(ctx, id, name)
}

// DeleteCategory fails with ReferentialConflict while any committed
// transaction or editing draft references the category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
