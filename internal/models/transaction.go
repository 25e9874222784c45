package models

import "github.com/shopspring/decimal"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense entry. Amount is always
// positive; Type carries the sign. A nil ContextID marks an entry of the
// standalone expense tracker.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"userId"`
	ContextID   *uint           `gorm:"index" json:"contextId"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description string          `json:"description"`
	Tags        []string        `gorm:"serializer:json;type:text" json:"tags"`
	Date        string          `gorm:"type:varchar(10);not null;index" json:"date"`
}

// Signed returns the amount with the sign implied by Type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
