package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"ledger-server/src/models"
)

// DraftInput carries the editable fields of a transaction draft.
type DraftInput struct {
	AccountID       int64
	TargetAccountID *int64
	CategoryID      *int64
	Kind            models.TransactionKind
	Amount          decimal.Decimal
	Description     string
	Date            time.Time
}

// SaveDraft creates a draft (id == 0) or persists edits to an existing one.
// Structural and referential invariants are checked first; a violation is
// returned as ValidationError and the stored draft is left untouched.
// Editing is the only state that accepts saves.
func (s *Service) SaveDraft(ctx context.Context, id int64, in DraftInput) (*models.Draft, error) {
	d := &models.Draft{
		ID:              id,
		AccountID:       in.AccountID,
		TargetAccountID: in.TargetAccountID,
		CategoryID:      in.CategoryID,
		Kind:            in.Kind,
		Amount:          in.Amount,
		Description:     in.Description,
		Date:            dateOnly(in.Date),
		Status:          models.DraftEditing,
	}
	if in.Date.IsZero() {
		d.Date = time.Time{}
	}
	if err := ValidateDraft(d); err != nil {
		return nil, err
	}
	src, tgt, cat, err := s.loadRefs(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := CheckRefs(d, src, tgt, cat); err != nil {
		return nil, err
	}

	if id == 0 {
		created, err := s.store.CreateDraft(ctx, d)
		if err != nil {
			return nil, err
		}
		s.log.Info().Int64("draft_id", created.ID).Str("type", string(created.Kind)).Msg("draft created")
		return created, nil
	}

	existing, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != models.DraftEditing {
		return nil, &InvalidStateError{Reason: "draft is " + string(existing.Status) + ", only editing drafts can be saved"}
	}
	updated, err := s.store.UpdateDraft(ctx, d)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("draft_id", id).Msg("draft updated")
	return updated, nil
}

// CommitDraft promotes an editing draft into a committed transaction. The
// draft's references are re-validated against current account/category state
// inside the store transaction; on any failure the draft remains editing.
func (s *Service) CommitDraft(ctx context.Context, id int64) (*models.Transaction, error) {
	d, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftEditing {
		return nil, &InvalidStateError{Reason: "draft is " + string(d.Status) + " and cannot be committed"}
	}
	if err := ValidateDraft(d); err != nil {
		return nil, err
	}
	tx, err := s.store.PromoteDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("draft_id", id).
		Int64("transaction_id", tx.ID).
		Str("type", string(tx.Kind)).
		Str("amount", tx.Amount.String()).
		Msg("draft committed")
	return tx, nil
}

// DiscardDraft is legal only while the draft is editing.
func (s *Service) DiscardDraft(ctx context.Context, id int64) error {
	if err := s.store.DiscardDraft(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("draft_id", id).Msg("draft discarded")
	return nil
}

func (s *Service) GetDraft(ctx context.Context, id int64) (*models.Draft, error) {
	return s.store.GetDraft(ctx, id)
}

func (s *Service) ListDrafts(ctx context.Context, f DraftFilter) ([]models.Draft, error) {
	return s.store.ListDrafts(ctx, f)
}

// loadRefs fetches the draft's referenced rows, mapping not-found to nil so
// the validation layer can phrase the error.
func (s *Service) loadRefs(ctx context.Context, d *models.Draft) (src, tgt *models.Account, cat *models.Category, err error) {
	src, err = s.store.GetAccount(ctx, d.AccountID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, nil, err
	}
	if d.TargetAccountID != nil {
		tgt, err = s.store.GetAccount(ctx, *d.TargetAccountID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, nil, nil, err
		}
	}
	if d.CategoryID != nil {
		cat, err = s.store.GetCategory(ctx, *d.CategoryID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, nil, nil, err
		}
	}
	return src, tgt, cat, nil
}
