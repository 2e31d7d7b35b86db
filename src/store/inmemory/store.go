// Package inmemory is a mutex-guarded, map-backed implementation of
// ledger.Store. It backs the test suite and lets the server run without a
// database (demo mode). A single mutex serializes every operation, which
// makes each method trivially atomic, including the multi-step draft
// promotion.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

type Store struct {
	mu sync.Mutex

	accounts     map[int64]*models.Account
	categories   map[int64]*models.Category
	drafts       map[int64]*models.Draft
	transactions map[int64]*models.Transaction

	accountSeq  int64
	categorySeq int64
	draftSeq    int64
	txSeq       int64
}

func New() *Store {
	return &Store{
		accounts:     make(map[int64]*models.Account),
		categories:   make(map[int64]*models.Category),
		drafts:       make(map[int64]*models.Draft),
		transactions: make(map[int64]*models.Transaction),
	}
}

func now() time.Time { return time.Now().UTC() }

func (s *Store) CreateAccount(ctx context.Context, name string, opening decimal.Decimal) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountSeq++
	ts := now()
	a := &models.Account{
		ID:             s.accountSeq,
		Name:           name,
		OpeningBalance: opening,
		Active:         true,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	s.accounts[a.ID] = a
	cp := *a
	return &cp, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ledger.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetAccountActive(ctx context.Context, id int64, active bool) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ledger.ErrNotFound)
	}
	a.Active = active
	a.UpdatedAt = now()
	cp := *a
	return &cp, nil
}

func (s *Store) CreateCategory(ctx context.Context, name string, kind models.TransactionKind) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categorySeq++
	c := &models.Category{ID: s.categorySeq, Name: name, Kind: kind, CreatedAt: now()}
	s.categories[c.ID] = c
	cp := *c
	return &cp, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, ledger.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, ledger.ErrNotFound)
	}
	c.Name = name
	cp := *c
	return &cp, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, ledger.ErrNotFound)
	}
	for _, t := range s.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			return &ledger.ReferentialConflict{Reason: fmt.Sprintf("category %d is referenced by committed transaction %d", id, t.ID)}
		}
	}
	for _, d := range s.drafts {
		if d.Status == models.DraftEditing && d.CategoryID != nil && *d.CategoryID == id {
			return &ledger.ReferentialConflict{Reason: fmt.Sprintf("category %d is referenced by draft %d", id, d.ID)}
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CreateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftSeq++
	ts := now()
	cp := *d
	cp.ID = s.draftSeq
	cp.Status = models.DraftEditing
	cp.CreatedAt = ts
	cp.UpdatedAt = ts
	s.drafts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Store) GetDraft(ctx context.Context, id int64) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %d: %w", id, ledger.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (s *Store) UpdateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drafts[d.ID]
	if !ok {
		return nil, fmt.Errorf("draft %d: %w", d.ID, ledger.ErrNotFound)
	}
	if cur.Status != models.DraftEditing {
		return nil, &ledger.InvalidStateError{Reason: fmt.Sprintf("draft %d is %s", d.ID, cur.Status)}
	}
	cur.AccountID = d.AccountID
	cur.TargetAccountID = d.TargetAccountID
	cur.CategoryID = d.CategoryID
	cur.Kind = d.Kind
	cur.Amount = d.Amount
	cur.Description = d.Description
	cur.Date = d.Date
	cur.UpdatedAt = now()
	cp := *cur
	return &cp, nil
}

func (s *Store) ListDrafts(ctx context.Context, f ledger.DraftFilter) ([]models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Draft
	for _, d := range s.drafts {
		if f.AccountID != nil && d.AccountID != *f.AccountID {
			continue
		}
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DiscardDraft(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("draft %d: %w", id, ledger.ErrNotFound)
	}
	if d.Status != models.DraftEditing {
		return &ledger.InvalidStateError{Reason: fmt.Sprintf("draft %d is %s and cannot be discarded", id, d.Status)}
	}
	d.Status = models.DraftDiscarded
	d.UpdatedAt = now()
	return nil
}

func (s *Store) PromoteDraft(ctx context.Context, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %d: %w", id, ledger.ErrNotFound)
	}
	if d.Status != models.DraftEditing {
		return nil, &ledger.InvalidStateError{Reason: fmt.Sprintf("draft %d is %s and cannot be committed", id, d.Status)}
	}
	if err := ledger.ValidateDraft(d); err != nil {
		return nil, err
	}

	src := s.accounts[d.AccountID]
	var tgt *models.Account
	if d.TargetAccountID != nil {
		tgt = s.accounts[*d.TargetAccountID]
	}
	var cat *models.Category
	if d.CategoryID != nil {
		cat = s.categories[*d.CategoryID]
	}
	if err := ledger.CheckRefsAtCommit(d, src, tgt, cat); err != nil {
		return nil, err
	}

	s.txSeq++
	draftID := d.ID
	t := &models.Transaction{
		ID:              s.txSeq,
		DraftID:         &draftID,
		AccountID:       d.AccountID,
		TargetAccountID: d.TargetAccountID,
		CategoryID:      d.CategoryID,
		Kind:            d.Kind,
		Amount:          d.Amount,
		Description:     d.Description,
		Date:            d.Date,
		CommittedAt:     now(),
	}
	s.transactions[t.ID] = t
	d.Status = models.DraftCommitted
	d.UpdatedAt = t.CommittedAt
	cp := *t
	return &cp, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (s *Store) ListTransactions(ctx context.Context, f ledger.TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.transactions {
		if !matches(t, f) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(t *models.Transaction, f ledger.TransactionFilter) bool {
	if f.AccountID != nil {
		if t.AccountID != *f.AccountID && (t.TargetAccountID == nil || *t.TargetAccountID != *f.AccountID) {
			return false
		}
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Kind != nil && t.Kind != *f.Kind {
		return false
	}
	if f.From != nil && t.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && t.Date.After(*f.To) {
		return false
	}
	return true
}

func (s *Store) UpdateTransactionDescription(ctx context.Context, id int64, description string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
	}
	t.Description = description
	cp := *t
	return &cp, nil
}

func (s *Store) InsertReversal(ctx context.Context, transactionID int64, description string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orig, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ledger.ErrNotFound)
	}
	if orig.Reverses != nil {
		return nil, &ledger.ValidationError{Reason: fmt.Sprintf("transaction %d is itself a reversal", transactionID)}
	}
	for _, t := range s.transactions {
		if t.Reverses != nil && *t.Reverses == transactionID {
			return nil, &ledger.ReferentialConflict{Reason: fmt.Sprintf("transaction %d is already reversed by %d", transactionID, t.ID)}
		}
	}
	s.txSeq++
	reverses := orig.ID
	rev := &models.Transaction{
		ID:              s.txSeq,
		AccountID:       orig.AccountID,
		TargetAccountID: orig.TargetAccountID,
		CategoryID:      orig.CategoryID,
		Kind:            orig.Kind,
		Amount:          orig.Amount,
		Description:     description,
		Date:            orig.Date,
		Reverses:        &reverses,
		CommittedAt:     now(),
	}
	s.transactions[rev.ID] = rev
	cp := *rev
	return &cp, nil
}

func (s *Store) HighWaterMark(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txSeq, nil
}
