package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one line of a profit-and-loss report.
type CategoryTotal struct {
	CategoryID int64           `json:"category_id"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
}

// ProfitAndLoss is a categorized income/expense report over a date range.
// Transfers are excluded; NetProfit = TotalIncome - TotalExpense.
type ProfitAndLoss struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Income       []CategoryTotal `json:"income"`
	Expense      []CategoryTotal `json:"expense"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// AccountSummaryRow reports per-account activity over a date range.
type AccountSummaryRow struct {
	AccountID      int64           `json:"account_id"`
	Account        string          `json:"account"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	NetTransfers   decimal.Decimal `json:"net_transfers"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}
