package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

const draftCols = `id, account_id, target_account_id, category_id, type, amount, description, date, status, created_at, updated_at`

func scanDraft(row pgx.Row) (*models.Draft, error) {
	var d models.Draft
	err := row.Scan(&d.ID, &d.AccountID, &d.TargetAccountID, &d.CategoryID, &d.Kind,
		&d.Amount, &d.Description, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) CreateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error) {
	query := `
		INSERT INTO transaction_drafts (account_id, target_account_id, category_id, type, amount, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + draftCols
	var created *models.Draft
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = scanDraft(s.pool.QueryRow(ctx, query,
			d.AccountID, d.TargetAccountID, d.CategoryID, d.Kind, d.Amount, d.Description, d.Date))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) GetDraft(ctx context.Context, id int64) (*models.Draft, error) {
	query := `SELECT ` + draftCols + ` FROM transaction_drafts WHERE id = $1`
	var d *models.Draft
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		d, err = scanDraft(s.pool.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "draft", id)
	}
	return d, nil
}

// UpdateDraft persists edits to an editing draft. The status guard is part
// of the WHERE clause, so a committed or discarded draft is never touched.
func (s *Store) UpdateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error) {
	query := `
		UPDATE transaction_drafts
		SET account_id = $1, target_account_id = $2, category_id = $3, type = $4,
		    amount = $5, description = $6, date = $7, updated_at = NOW()
		WHERE id = $8 AND status = 'editing'
		RETURNING ` + draftCols
	var updated *models.Draft
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = scanDraft(s.pool.QueryRow(ctx, query,
			d.AccountID, d.TargetAccountID, d.CategoryID, d.Kind, d.Amount, d.Description, d.Date, d.ID))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.draftStateError(ctx, d.ID, err, "saved")
		}
		return nil, err
	}
	return updated, nil
}

func (s *Store) ListDrafts(ctx context.Context, f ledger.DraftFilter) ([]models.Draft, error) {
	query := `SELECT ` + draftCols + ` FROM transaction_drafts`
	var where []string
	var args []any
	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		where = append(where, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	var drafts []models.Draft
	err := s.withRetry(ctx, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		drafts = nil
		for rows.Next() {
			d, err := scanDraft(rows)
			if err != nil {
				return err
			}
			drafts = append(drafts, *d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

func (s *Store) DiscardDraft(ctx context.Context, id int64) error {
	query := `
		UPDATE transaction_drafts
		SET status = 'discarded', updated_at = NOW()
		WHERE id = $1 AND status = 'editing'`
	return s.withRetry(ctx, func(ctx context.Context) error {
		cmd, err := s.pool.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return s.draftStateError(ctx, id, pgx.ErrNoRows, "discarded")
		}
		return nil
	})
}

// PromoteDraft is the one multi-step critical section: within a single
// database transaction it locks the draft, re-validates its references
// against current account/category state, inserts the committed transaction
// and marks the draft committed. Any failure rolls everything back and the
// draft stays editing.
func (s *Store) PromoteDraft(ctx context.Context, id int64) (*models.Transaction, error) {
	var t *models.Transaction
	err := s.withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		d, err := scanDraft(tx.QueryRow(ctx,
			`SELECT `+draftCols+` FROM transaction_drafts WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return notFound(err, "draft", id)
		}
		if d.Status != models.DraftEditing {
			return &ledger.InvalidStateError{Reason: fmt.Sprintf("draft %d is %s and cannot be committed", id, d.Status)}
		}
		if err := ledger.ValidateDraft(d); err != nil {
			return err
		}

		src, err := optionalAccount(ctx, tx, d.AccountID)
		if err != nil {
			return err
		}
		var tgt *models.Account
		if d.TargetAccountID != nil {
			if tgt, err = optionalAccount(ctx, tx, *d.TargetAccountID); err != nil {
				return err
			}
		}
		var cat *models.Category
		if d.CategoryID != nil {
			if cat, err = optionalCategory(ctx, tx, *d.CategoryID); err != nil {
				return err
			}
		}
		if err := ledger.CheckRefsAtCommit(d, src, tgt, cat); err != nil {
			return err
		}

		t, err = scanTransaction(tx.QueryRow(ctx, `
			INSERT INTO transactions (draft_id, account_id, target_account_id, category_id, type, amount, description, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+txCols,
			d.ID, d.AccountID, d.TargetAccountID, d.CategoryID, d.Kind, d.Amount, d.Description, d.Date))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE transaction_drafts SET status = 'committed', updated_at = NOW() WHERE id = $1`, d.ID)
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// draftStateError distinguishes "no such draft" from "draft is terminal"
// after a guarded update matched zero rows.
func (s *Store) draftStateError(ctx context.Context, id int64, cause error, verb string) error {
	var status models.DraftStatus
	err := s.pool.QueryRow(ctx, `SELECT status FROM transaction_drafts WHERE id = $1`, id).Scan(&status)
	if err != nil {
		return notFound(cause, "draft", id)
	}
	return &ledger.InvalidStateError{Reason: fmt.Sprintf("draft %d is %s and cannot be %s", id, status, verb)}
}

func optionalAccount(ctx context.Context, tx pgx.Tx, id int64) (*models.Account, error) {
	a, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func optionalCategory(ctx context.Context, tx pgx.Tx, id int64) (*models.Category, error) {
	c, err := scanCategory(tx.QueryRow(ctx, `SELECT `+categoryCols+` FROM categories WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}
