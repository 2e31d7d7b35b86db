package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

const categoryCols = `id, name, kind, created_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Kind, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, name string, kind models.TransactionKind) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, kind)
		VALUES ($1, $2)
		RETURNING ` + categoryCols
	var c *models.Category
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		c, err = scanCategory(s.pool.QueryRow(ctx, query, name, kind))
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryCols + ` FROM categories WHERE id = $1`
	var c *models.Category
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		c, err = scanCategory(s.pool.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT ` + categoryCols + ` FROM categories ORDER BY id`
	var categories []models.Category
	err := s.withRetry(ctx, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		categories = nil
		for rows.Next() {
			c, err := scanCategory(rows)
			if err != nil {
				return err
			}
			categories = append(categories, *c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1
		WHERE id = $2
		RETURNING ` + categoryCols
	var c *models.Category
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		c, err = scanCategory(s.pool.QueryRow(ctx, query, name, id))
		return err
	})
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return c, nil
}

// DeleteCategory removes an unreferenced category. The reference checks and
// the delete run in one transaction so a commit racing the delete cannot
// leave a dangling category id.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		var refs int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM transactions WHERE category_id = $1`, id).Scan(&refs)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ledger.ReferentialConflict{Reason: fmt.Sprintf("category %d is referenced by %d committed transaction(s)", id, refs)}
		}
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM transaction_drafts WHERE category_id = $1 AND status = 'editing'`, id).Scan(&refs)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ledger.ReferentialConflict{Reason: fmt.Sprintf("category %d is referenced by %d draft(s)", id, refs)}
		}

		cmd, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("category %d: %w", id, ledger.ErrNotFound)
		}
		return tx.Commit(ctx)
	})
}
