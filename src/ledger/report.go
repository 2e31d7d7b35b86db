package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ledger-server/src/models"
)

// ProfitAndLoss partitions committed transactions with effective date in
// [start, end] by kind and category. Transfers are excluded; they move value
// between accounts without affecting profit. The accumulation is exact
// fixed-point, so the result is identical for any commit order; a range with
// no transactions yields zero totals.
func (s *Service) ProfitAndLoss(ctx context.Context, start, end time.Time) (*models.ProfitAndLoss, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return nil, validationf("date range end precedes start")
	}

	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	txs, err := s.store.ListTransactions(ctx, TransactionFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}

	income := make(map[int64]decimal.Decimal)
	expense := make(map[int64]decimal.Decimal)
	for i := range txs {
		t := &txs[i]
		if t.Kind == models.KindTransfer || t.CategoryID == nil {
			continue
		}
		amt := t.Amount.Mul(t.Sign())
		switch t.Kind {
		case models.KindIncome:
			income[*t.CategoryID] = income[*t.CategoryID].Add(amt)
		case models.KindExpense:
			expense[*t.CategoryID] = expense[*t.CategoryID].Add(amt)
		}
	}

	report := &models.ProfitAndLoss{Start: start, End: end}
	report.Income, report.TotalIncome = categoryLines(income, names)
	report.Expense, report.TotalExpense = categoryLines(expense, names)
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)
	return report, nil
}

func categoryLines(totals map[int64]decimal.Decimal, names map[int64]string) ([]models.CategoryTotal, decimal.Decimal) {
	lines := make([]models.CategoryTotal, 0, len(totals))
	sum := decimal.Decimal{}
	for id, total := range totals {
		lines = append(lines, models.CategoryTotal{CategoryID: id, Category: names[id], Total: total})
		sum = sum.Add(total)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Category != lines[j].Category {
			return lines[i].Category < lines[j].Category
		}
		return lines[i].CategoryID < lines[j].CategoryID
	})
	return lines, sum
}

// MonthlySummary is the profit-and-loss report for one calendar month.
func (s *Service) MonthlySummary(ctx context.Context, year int, month time.Month) (*models.ProfitAndLoss, error) {
	if month < time.January || month > time.December {
		return nil, validationf("month out of range: %d", month)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return s.ProfitAndLoss(ctx, start, end)
}

// AccountSummary reports per-account activity over a date range: the balance
// going into the range, income/expense totals and net transfers within it,
// and the resulting closing balance.
func (s *Service) AccountSummary(ctx context.Context, start, end time.Time) ([]models.AccountSummaryRow, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return nil, validationf("date range end precedes start")
	}

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AccountSummaryRow, 0, len(accounts))
	for _, acct := range accounts {
		opening, err := s.projected(ctx, acct.ID, start.AddDate(0, 0, -1))
		if err != nil {
			return nil, err
		}
		id := acct.ID
		txs, err := s.store.ListTransactions(ctx, TransactionFilter{AccountID: &id, From: &start, To: &end})
		if err != nil {
			return nil, err
		}
		row := models.AccountSummaryRow{AccountID: acct.ID, Account: acct.Name, OpeningBalance: opening}
		for i := range txs {
			t := &txs[i]
			amt := t.Amount.Mul(t.Sign())
			switch t.Kind {
			case models.KindIncome:
				row.TotalIncome = row.TotalIncome.Add(amt)
			case models.KindExpense:
				row.TotalExpense = row.TotalExpense.Add(amt)
			case models.KindTransfer:
				row.NetTransfers = row.NetTransfers.Add(accountEffect(t, acct.ID))
			}
		}
		row.ClosingBalance = opening.Add(row.TotalIncome).Sub(row.TotalExpense).Add(row.NetTransfers)
		rows = append(rows, row)
	}
	return rows, nil
}
