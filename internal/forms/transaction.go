package forms

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// TransactionForm is the add/edit transaction form. Amount is the raw text
// the user typed.
type TransactionForm struct {
	Type        models.TransactionType
	Amount      string
	Description string
	Tags        []string
	Date        string
	ContextID   *uint
}

// NewTransactionForm returns an empty expense form dated today.
func NewTransactionForm(contextID *uint, today time.Time) TransactionForm {
	return TransactionForm{
		Type:      models.TransactionTypeExpense,
		Date:      timeutil.FormatISODate(today),
		ContextID: contextID,
	}
}

// TransactionFormFrom pre-fills a form for editing t.
func TransactionFormFrom(t models.Transaction) TransactionForm {
	return TransactionForm{
		Type:        t.Type,
		Amount:      t.Amount.String(),
		Description: t.Description,
		Tags:        cloneTags(t.Tags),
		Date:        t.Date,
		ContextID:   t.ContextID,
	}
}

func (f TransactionForm) WithType(t models.TransactionType) TransactionForm {
	f.Type = t
	return f
}

func (f TransactionForm) WithAmount(amount string) TransactionForm {
	f.Amount = amount
	return f
}

func (f TransactionForm) WithDescription(d string) TransactionForm {
	f.Description = d
	return f
}

func (f TransactionForm) WithTags(tags []string) TransactionForm {
	f.Tags = cloneTags(tags)
	return f
}

func (f TransactionForm) WithDate(date string) TransactionForm {
	f.Date = date
	return f
}

type transactionRules struct {
	Type models.TransactionType `json:"type" validate:"required,transaction_type"`
	Date string                 `json:"date" validate:"required,iso_date"`
}

// Submit validates the form. The amount is parsed as a decimal and its sign
// dropped; the type alone says whether money came in or went out.
func (f TransactionForm) Submit() (client.TransactionInput, error) {
	raw := strings.TrimSpace(f.Amount)
	if raw == "" {
		return client.TransactionInput{}, invalid("amount", "Amount is required")
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return client.TransactionInput{}, invalid("amount", "Amount must be a number")
	}
	amount = amount.Abs()
	if amount.IsZero() {
		return client.TransactionInput{}, invalid("amount", "Amount must be greater than zero")
	}
	if err := check(transactionRules{Type: f.Type, Date: strings.TrimSpace(f.Date)}); err != nil {
		return client.TransactionInput{}, err
	}

	return client.TransactionInput{
		Type:        f.Type,
		Amount:      amount.Round(2),
		Description: strings.TrimSpace(f.Description),
		Tags:        models.Tags(f.Tags),
		Date:        strings.TrimSpace(f.Date),
		ContextID:   f.ContextID,
	}, nil
}
