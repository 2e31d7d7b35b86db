package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

const txCols = `id, draft_id, account_id, target_account_id, category_id, type, amount, description, date, reverses, committed_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.DraftID, &t.AccountID, &t.TargetAccountID, &t.CategoryID,
		&t.Kind, &t.Amount, &t.Description, &t.Date, &t.Reverses, &t.CommittedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `SELECT ` + txCols + ` FROM transactions WHERE id = $1`
	var t *models.Transaction
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		t, err = scanTransaction(s.pool.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, f ledger.TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + txCols + ` FROM transactions`
	var where []string
	var args []any
	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		where = append(where, fmt.Sprintf("(account_id = $%d OR target_account_id = $%d)", len(args), len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Kind != nil {
		args = append(args, *f.Kind)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var txs []models.Transaction
	err := s.withRetry(ctx, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		txs = nil
		for rows.Next() {
			t, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			txs = append(txs, *t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Store) UpdateTransactionDescription(ctx context.Context, id int64, description string) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET description = $1
		WHERE id = $2
		RETURNING ` + txCols
	var t *models.Transaction
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		t, err = scanTransaction(s.pool.QueryRow(ctx, query, description, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return t, nil
}

// InsertReversal appends the offsetting row inside one transaction, locking
// the original so two concurrent reversals of the same row cannot both land.
func (s *Store) InsertReversal(ctx context.Context, transactionID int64, description string) (*models.Transaction, error) {
	var rev *models.Transaction
	err := s.withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		orig, err := scanTransaction(tx.QueryRow(ctx,
			`SELECT `+txCols+` FROM transactions WHERE id = $1 FOR UPDATE`, transactionID))
		if err != nil {
			return notFound(err, "transaction", transactionID)
		}
		if orig.Reverses != nil {
			return &ledger.ValidationError{Reason: fmt.Sprintf("transaction %d is itself a reversal", transactionID)}
		}
		var existing int64
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(id), 0) FROM transactions WHERE reverses = $1`, transactionID).Scan(&existing)
		if err != nil {
			return err
		}
		if existing != 0 {
			return &ledger.ReferentialConflict{Reason: fmt.Sprintf("transaction %d is already reversed by %d", transactionID, existing)}
		}

		rev, err = scanTransaction(tx.QueryRow(ctx, `
			INSERT INTO transactions (account_id, target_account_id, category_id, type, amount, description, date, reverses)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+txCols,
			orig.AccountID, orig.TargetAccountID, orig.CategoryID, orig.Kind, orig.Amount, description, orig.Date, orig.ID))
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *Store) HighWaterMark(ctx context.Context) (int64, error) {
	var hwm int64
	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM transactions`).Scan(&hwm)
	})
	if err != nil {
		return 0, err
	}
	return hwm, nil
}
