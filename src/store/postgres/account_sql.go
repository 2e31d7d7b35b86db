package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"ledger-server/src/models"
)

const accountCols = `id, name, opening_balance, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Name, &a.OpeningBalance, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, name string, opening decimal.Decimal) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, opening_balance)
		VALUES ($1, $2)
		RETURNING ` + accountCols
	var a *models.Account
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		a, err = scanAccount(s.pool.QueryRow(ctx, query, name, opening))
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountCols + ` FROM accounts WHERE id = $1`
	var a *models.Account
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		a, err = scanAccount(s.pool.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "account", id)
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountCols + ` FROM accounts ORDER BY id`
	var accounts []models.Account
	err := s.withRetry(ctx, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		accounts = nil
		for rows.Next() {
			a, err := scanAccount(rows)
			if err != nil {
				return err
			}
			accounts = append(accounts, *a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) SetAccountActive(ctx context.Context, id int64, active bool) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + accountCols
	var a *models.Account
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		a, err = scanAccount(s.pool.QueryRow(ctx, query, active, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "account", id)
	}
	return a, nil
}
