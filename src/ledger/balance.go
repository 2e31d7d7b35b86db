package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ledger-server/src/models"
)

// Balance returns the account's current balance: opening balance plus the
// signed sum of every committed transaction touching the account.
func (s *Service) Balance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	return s.projected(ctx, accountID, time.Time{})
}

// ProjectedBalance returns the balance as of the end of the given day,
// restricting the sum to transactions with effective date <= asOf. The
// result always equals a full recomputation; the memo cache is keyed on the
// commit high-water mark so it can never drift.
func (s *Service) ProjectedBalance(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error) {
	return s.projected(ctx, accountID, dateOnly(asOf))
}

func (s *Service) projected(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	hwm, err := s.store.HighWaterMark(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	key := balanceKey(accountID, asOf, hwm)
	if v, ok := s.cache.Get(key); ok {
		return v.(decimal.Decimal), nil
	}

	f := TransactionFilter{AccountID: &accountID}
	if !asOf.IsZero() {
		to := asOf
		f.To = &to
	}
	txs, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return decimal.Decimal{}, err
	}
	bal := acct.OpeningBalance
	for i := range txs {
		bal = bal.Add(accountEffect(&txs[i], accountID))
	}
	s.cache.Set(key, bal, 1)
	return bal, nil
}

// accountEffect is the signed contribution of one committed transaction to
// one account: income credits, expense debits, a transfer debits the source
// and credits the target by the same amount. Reversal rows apply with the
// opposite sign via Transaction.Sign.
func accountEffect(t *models.Transaction, accountID int64) decimal.Decimal {
	amt := t.Amount.Mul(t.Sign())
	switch t.Kind {
	case models.KindIncome:
		if t.AccountID == accountID {
			return amt
		}
	case models.KindExpense:
		if t.AccountID == accountID {
			return amt.Neg()
		}
	case models.KindTransfer:
		eff := decimal.Decimal{}
		if t.AccountID == accountID {
			eff = eff.Sub(amt)
		}
		if t.TargetAccountID != nil && *t.TargetAccountID == accountID {
			eff = eff.Add(amt)
		}
		return eff
	}
	return decimal.Decimal{}
}
