package ledger

import (
	"context"

	"ledger-server/src/models"
)

func (s *Service) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, validationf("date range end precedes start")
	}
	return s.store.ListTransactions(ctx, f)
}

// UpdateTransactionDescription edits the only mutable field of a committed
// transaction. Everything else is amended by reversal, never in place.
func (s *Service) UpdateTransactionDescription(ctx context.Context, id int64, description string) (*models.Transaction, error) {
	return s.store.UpdateTransactionDescription(ctx, id, description)
}

// ReverseTransaction appends an offsetting committed transaction for the
// given one. The reversal keeps the original's effective date so reports for
// that period net to zero, and works even when the touched accounts have
// since been disabled: corrections must always be possible.
func (s *Service) ReverseTransaction(ctx context.Context, id int64, description string) (*models.Transaction, error) {
	rev, err := s.store.InsertReversal(ctx, id, description)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("transaction_id", id).
		Int64("reversal_id", rev.ID).
		Msg("transaction reversed")
	return rev, nil
}
