package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
	"ledger-server/src/store/inmemory"
)

func newService(t *testing.T) *ledger.Service {
	t.Helper()
	svc, err := ledger.NewService(inmemory.New(), zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func requireDecEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func mustAccount(t *testing.T, svc *ledger.Service, name, opening string) *models.Account {
	t.Helper()
	acct, err := svc.CreateAccount(context.Background(), name, dec(opening))
	require.NoError(t, err)
	return acct
}

func mustCategory(t *testing.T, svc *ledger.Service, name string, kind models.TransactionKind) *models.Category {
	t.Helper()
	cat, err := svc.CreateCategory(context.Background(), name, kind)
	require.NoError(t, err)
	return cat
}

func mustDraft(t *testing.T, svc *ledger.Service, in ledger.DraftInput) *models.Draft {
	t.Helper()
	d, err := svc.SaveDraft(context.Background(), 0, in)
	require.NoError(t, err)
	return d
}

func mustCommit(t *testing.T, svc *ledger.Service, in ledger.DraftInput) *models.Transaction {
	t.Helper()
	d := mustDraft(t, svc, in)
	tx, err := svc.CommitDraft(context.Background(), d.ID)
	require.NoError(t, err)
	return tx
}

func incomeInput(accountID, categoryID int64, amount string, on time.Time) ledger.DraftInput {
	return ledger.DraftInput{
		AccountID:  accountID,
		CategoryID: &categoryID,
		Kind:       models.KindIncome,
		Amount:     dec(amount),
		Date:       on,
	}
}

func expenseInput(accountID, categoryID int64, amount string, on time.Time) ledger.DraftInput {
	in := incomeInput(accountID, categoryID, amount, on)
	in.Kind = models.KindExpense
	return in
}

func transferInput(from, to int64, amount string, on time.Time) ledger.DraftInput {
	return ledger.DraftInput{
		AccountID:       from,
		TargetAccountID: &to,
		Kind:            models.KindTransfer,
		Amount:          dec(amount),
		Date:            on,
	}
}

func TestCommitIncomeUpdatesBalanceAndReport(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "Main", "1000")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	tx := mustCommit(t, svc, incomeInput(a.ID, sales.ID, "500", date(2025, 1, 10)))
	require.NotNil(t, tx.DraftID)
	require.False(t, tx.CommittedAt.IsZero())

	bal, err := svc.Balance(ctx, a.ID)
	require.NoError(t, err)
	requireDecEqual(t, "1500", bal)

	report, err := svc.ProfitAndLoss(ctx, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	requireDecEqual(t, "500", report.TotalIncome)
	requireDecEqual(t, "0", report.TotalExpense)
	requireDecEqual(t, "500", report.NetProfit)
	require.Len(t, report.Income, 1)
	require.Equal(t, "Sales", report.Income[0].Category)
}

func TestTransferConservesValue(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "1000")
	b := mustAccount(t, svc, "B", "300")

	mustCommit(t, svc, transferInput(a.ID, b.ID, "200", date(2025, 1, 15)))

	balA, err := svc.Balance(ctx, a.ID)
	require.NoError(t, err)
	balB, err := svc.Balance(ctx, b.ID)
	require.NoError(t, err)
	requireDecEqual(t, "800", balA)
	requireDecEqual(t, "500", balB)

	// Transfers never affect profit.
	report, err := svc.ProfitAndLoss(ctx, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	requireDecEqual(t, "0", report.NetProfit)
	require.Empty(t, report.Income)
	require.Empty(t, report.Expense)
}

func TestDraftLifecycleIsTerminal(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	d := mustDraft(t, svc, incomeInput(a.ID, sales.ID, "10", date(2025, 2, 1)))
	_, err := svc.CommitDraft(ctx, d.ID)
	require.NoError(t, err)

	var state *ledger.InvalidStateError

	// Committed drafts cannot be discarded, re-committed or edited.
	err = svc.DiscardDraft(ctx, d.ID)
	require.ErrorAs(t, err, &state)
	_, err = svc.CommitDraft(ctx, d.ID)
	require.ErrorAs(t, err, &state)
	_, err = svc.SaveDraft(ctx, d.ID, incomeInput(a.ID, sales.ID, "20", date(2025, 2, 2)))
	require.ErrorAs(t, err, &state)

	// The committed draft is retained as provenance.
	got, err := svc.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, models.DraftCommitted, got.Status)

	// Discarded drafts are just as terminal.
	d2 := mustDraft(t, svc, incomeInput(a.ID, sales.ID, "10", date(2025, 2, 1)))
	require.NoError(t, svc.DiscardDraft(ctx, d2.ID))
	_, err = svc.CommitDraft(ctx, d2.ID)
	require.ErrorAs(t, err, &state)
}

func TestInvalidSaveLeavesStoredDraftUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	d := mustDraft(t, svc, incomeInput(a.ID, sales.ID, "10", date(2025, 3, 1)))

	bad := incomeInput(a.ID, sales.ID, "-5", date(2025, 3, 2))
	_, err := svc.SaveDraft(ctx, d.ID, bad)
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)

	got, err := svc.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	requireDecEqual(t, "10", got.Amount)
	require.Equal(t, date(2025, 3, 1), got.Date)
}

func TestCommitFailsWithStaleReference(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	b := mustAccount(t, svc, "B", "0")

	d := mustDraft(t, svc, transferInput(a.ID, b.ID, "200", date(2025, 1, 15)))

	// Target disabled after the draft was saved.
	_, err := svc.SetAccountActive(ctx, b.ID, false)
	require.NoError(t, err)

	_, err = svc.CommitDraft(ctx, d.ID)
	var stale *ledger.StaleReferenceError
	require.ErrorAs(t, err, &stale)

	// The draft remains editing and unchanged.
	got, err := svc.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, models.DraftEditing, got.Status)
	requireDecEqual(t, "200", got.Amount)

	// No transaction was created and no balance moved.
	balA, err := svc.Balance(ctx, a.ID)
	require.NoError(t, err)
	requireDecEqual(t, "0", balA)

	// Re-enabling the target makes the same draft committable.
	_, err = svc.SetAccountActive(ctx, b.ID, true)
	require.NoError(t, err)
	_, err = svc.CommitDraft(ctx, d.ID)
	require.NoError(t, err)
}

func TestCommitRequiresCategory(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")

	in := ledger.DraftInput{
		AccountID: a.ID,
		Kind:      models.KindExpense,
		Amount:    dec("10"),
		Date:      date(2025, 1, 5),
	}
	d := mustDraft(t, svc, in) // category may stay empty while editing

	_, err := svc.CommitDraft(ctx, d.ID)
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)

	got, err := svc.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, models.DraftEditing, got.Status)
}

func TestDeleteCategoryReferentialConflict(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)
	unused := mustCategory(t, svc, "Unused", models.KindIncome)

	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "50", date(2025, 1, 2)))

	err := svc.DeleteCategory(ctx, sales.ID)
	var conflict *ledger.ReferentialConflict
	require.ErrorAs(t, err, &conflict)

	require.NoError(t, svc.DeleteCategory(ctx, unused.ID))
}

func TestDeleteCategoryBlockedByEditingDraft(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	cat := mustCategory(t, svc, "Supplies", models.KindExpense)

	d := mustDraft(t, svc, expenseInput(a.ID, cat.ID, "10", date(2025, 4, 1)))

	err := svc.DeleteCategory(ctx, cat.ID)
	var conflict *ledger.ReferentialConflict
	require.ErrorAs(t, err, &conflict)

	// Discarding the draft releases the reference.
	require.NoError(t, svc.DiscardDraft(ctx, d.ID))
	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
}

func TestReversalOffsetsBalanceAndReport(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "100")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	tx := mustCommit(t, svc, incomeInput(a.ID, sales.ID, "40", date(2025, 5, 10)))

	rev, err := svc.ReverseTransaction(ctx, tx.ID, "entered twice")
	require.NoError(t, err)
	require.NotNil(t, rev.Reverses)
	require.Equal(t, tx.ID, *rev.Reverses)
	require.Nil(t, rev.DraftID)
	require.Equal(t, tx.Date, rev.Date)

	bal, err := svc.Balance(ctx, a.ID)
	require.NoError(t, err)
	requireDecEqual(t, "100", bal)

	report, err := svc.ProfitAndLoss(ctx, date(2025, 5, 1), date(2025, 5, 31))
	require.NoError(t, err)
	requireDecEqual(t, "0", report.TotalIncome)

	// One reversal per transaction; reversals cannot be reversed.
	_, err = svc.ReverseTransaction(ctx, tx.ID, "again")
	var conflict *ledger.ReferentialConflict
	require.ErrorAs(t, err, &conflict)
	_, err = svc.ReverseTransaction(ctx, rev.ID, "undo the undo")
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestDescriptionIsTheOnlyMutableField(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	tx := mustCommit(t, svc, incomeInput(a.ID, sales.ID, "75", date(2025, 6, 1)))

	got, err := svc.UpdateTransactionDescription(ctx, tx.ID, "corrected memo")
	require.NoError(t, err)
	require.Equal(t, "corrected memo", got.Description)
	requireDecEqual(t, "75", got.Amount)
	require.Equal(t, tx.ID, got.ID)
	require.Equal(t, tx.CommittedAt, got.CommittedAt)
}

func TestDisableAccountBlocksNewDraftsNotHistory(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "20", date(2025, 1, 1)))

	_, err := svc.SetAccountActive(ctx, a.ID, false)
	require.NoError(t, err)

	// Disabling is always allowed; the balance of a disabled account is
	// still queryable.
	bal, err := svc.Balance(ctx, a.ID)
	require.NoError(t, err)
	requireDecEqual(t, "20", bal)

	_, err = svc.SaveDraft(ctx, 0, incomeInput(a.ID, sales.ID, "10", date(2025, 1, 2)))
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
}
