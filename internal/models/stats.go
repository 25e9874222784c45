package models

import "github.com/shopspring/decimal"

// Summary is the income/expense total over a set of transactions.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryTotal is the total per tag and type. Untagged transactions are
// grouped under UncategorizedTag.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// DailyTotal is one point of the daily income/expense series.
type DailyTotal struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// UncategorizedTag labels transactions without tags in category breakdowns.
const UncategorizedTag = "Uncategorized"
