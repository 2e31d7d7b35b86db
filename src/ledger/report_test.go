package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

func TestProfitAndLossEmptyRange(t *testing.T) {
	svc := newService(t)
	mustAccount(t, svc, "A", "1000")

	report, err := svc.ProfitAndLoss(context.Background(), date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	requireDecEqual(t, "0", report.TotalIncome)
	requireDecEqual(t, "0", report.TotalExpense)
	requireDecEqual(t, "0", report.NetProfit)
	require.Empty(t, report.Income)
	require.Empty(t, report.Expense)
}

func TestProfitAndLossRejectsInvertedRange(t *testing.T) {
	svc := newService(t)
	_, err := svc.ProfitAndLoss(context.Background(), date(2025, 2, 1), date(2025, 1, 1))
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestProfitAndLossCategorizedTotals(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	b := mustAccount(t, svc, "B", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)
	interest := mustCategory(t, svc, "Interest", models.KindIncome)
	rent := mustCategory(t, svc, "Rent", models.KindExpense)

	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "100.25", date(2025, 1, 5)))
	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "200.50", date(2025, 1, 20)))
	mustCommit(t, svc, incomeInput(b.ID, interest.ID, "9.99", date(2025, 1, 31)))
	mustCommit(t, svc, expenseInput(a.ID, rent.ID, "80.00", date(2025, 1, 15)))
	mustCommit(t, svc, transferInput(a.ID, b.ID, "1000", date(2025, 1, 16)))

	// Outside the range.
	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "999", date(2025, 2, 1)))

	report, err := svc.ProfitAndLoss(ctx, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)

	require.Len(t, report.Income, 2)
	// Lines are sorted by category name.
	require.Equal(t, "Interest", report.Income[0].Category)
	requireDecEqual(t, "9.99", report.Income[0].Total)
	require.Equal(t, "Sales", report.Income[1].Category)
	requireDecEqual(t, "300.75", report.Income[1].Total)

	require.Len(t, report.Expense, 1)
	require.Equal(t, "Rent", report.Expense[0].Category)
	requireDecEqual(t, "80.00", report.Expense[0].Total)

	requireDecEqual(t, "310.74", report.TotalIncome)
	requireDecEqual(t, "80.00", report.TotalExpense)
	requireDecEqual(t, "230.74", report.NetProfit)
}

// Committing the same set of transactions in any order must produce the
// identical report.
func TestProfitAndLossOrderIndependent(t *testing.T) {
	ctx := context.Background()

	inputs := func(a, b int64, sales, fees int64) []ledger.DraftInput {
		return []ledger.DraftInput{
			incomeInput(a, sales, "0.10", date(2025, 3, 1)),
			incomeInput(a, sales, "0.20", date(2025, 3, 2)),
			incomeInput(b, sales, "1000000.01", date(2025, 3, 3)),
			expenseInput(a, fees, "0.30", date(2025, 3, 4)),
			expenseInput(b, fees, "333333.33", date(2025, 3, 5)),
			transferInput(a, b, "42", date(2025, 3, 6)),
		}
	}

	build := func(order []int) *models.ProfitAndLoss {
		svc := newService(t)
		a := mustAccount(t, svc, "A", "0")
		b := mustAccount(t, svc, "B", "0")
		sales := mustCategory(t, svc, "Sales", models.KindIncome)
		fees := mustCategory(t, svc, "Fees", models.KindExpense)
		ins := inputs(a.ID, b.ID, sales.ID, fees.ID)
		for _, i := range order {
			mustCommit(t, svc, ins[i])
		}
		report, err := svc.ProfitAndLoss(ctx, date(2025, 3, 1), date(2025, 3, 31))
		require.NoError(t, err)
		return report
	}

	forward := build([]int{0, 1, 2, 3, 4, 5})
	backward := build([]int{5, 4, 3, 2, 1, 0})
	shuffled := build([]int{3, 0, 5, 2, 4, 1})

	for _, other := range []*models.ProfitAndLoss{backward, shuffled} {
		require.Equal(t, len(forward.Income), len(other.Income))
		for i := range forward.Income {
			require.Equal(t, forward.Income[i].Category, other.Income[i].Category)
			require.True(t, forward.Income[i].Total.Equal(other.Income[i].Total))
		}
		require.True(t, forward.TotalIncome.Equal(other.TotalIncome))
		require.True(t, forward.TotalExpense.Equal(other.TotalExpense))
		require.True(t, forward.NetProfit.Equal(other.NetProfit))
	}
	requireDecEqual(t, "1000000.31", forward.TotalIncome)
	requireDecEqual(t, "333333.63", forward.TotalExpense)
	requireDecEqual(t, "666666.68", forward.NetProfit)
}

func TestMonthlySummary(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "A", "0")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)

	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "10", date(2025, 1, 31)))
	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "20", date(2025, 2, 1)))
	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "40", date(2025, 2, 28)))
	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "80", date(2025, 3, 1)))

	report, err := svc.MonthlySummary(ctx, 2025, time.February)
	require.NoError(t, err)
	requireDecEqual(t, "60", report.TotalIncome)
	require.Equal(t, date(2025, 2, 1), report.Start)
	require.Equal(t, date(2025, 2, 28), report.End)

	_, err = svc.MonthlySummary(ctx, 2025, time.Month(13))
	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAccountSummary(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := mustAccount(t, svc, "Checking", "1000")
	b := mustAccount(t, svc, "Savings", "500")
	sales := mustCategory(t, svc, "Sales", models.KindIncome)
	rent := mustCategory(t, svc, "Rent", models.KindExpense)

	// Before the range: settles into the opening balance.
	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "100", date(2024, 12, 15)))

	mustCommit(t, svc, incomeInput(a.ID, sales.ID, "300", date(2025, 1, 10)))
	mustCommit(t, svc, expenseInput(a.ID, rent.ID, "50", date(2025, 1, 12)))
	mustCommit(t, svc, transferInput(a.ID, b.ID, "200", date(2025, 1, 15)))

	rows, err := svc.AccountSummary(ctx, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	checking := rows[0]
	require.Equal(t, "Checking", checking.Account)
	requireDecEqual(t, "1100", checking.OpeningBalance)
	requireDecEqual(t, "300", checking.TotalIncome)
	requireDecEqual(t, "50", checking.TotalExpense)
	requireDecEqual(t, "-200", checking.NetTransfers)
	requireDecEqual(t, "1150", checking.ClosingBalance)

	savings := rows[1]
	require.Equal(t, "Savings", savings.Account)
	requireDecEqual(t, "500", savings.OpeningBalance)
	requireDecEqual(t, "200", savings.NetTransfers)
	requireDecEqual(t, "700", savings.ClosingBalance)
}
