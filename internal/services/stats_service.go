package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// statsService aggregates transactions. Tags are stored as JSON, so grouping
// by tag happens in Go rather than SQL.
type statsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB) StatsServicer {
	return &statsService{db: db}
}

func (s *statsService) load(userID uint, filter TransactionFilter) ([]models.Transaction, error) {
	if filter.ContextID != nil {
		if _, err := findContext(s.db, userID, *filter.ContextID); err != nil {
			return nil, err
		}
	}
	var transactions []models.Transaction
	q := applyTransactionFilters(s.db.Where("user_id = ?", userID), filter)
	if err := q.Order("date ASC, id ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Summary totals income and expenses. Balance is income minus expenses.
func (s *statsService) Summary(userID uint, filter TransactionFilter) (*models.Summary, error) {
	transactions, err := s.load(userID, filter)
	if err != nil {
		return nil, err
	}
	return summarise(transactions), nil
}

func summarise(transactions []models.Transaction) *models.Summary {
	sum := &models.Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			sum.TotalExpenses = sum.TotalExpenses.Add(t.Amount)
		}
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpenses)
	sum.TransactionCount = len(transactions)
	return sum
}

// CategoryTotals groups totals by tag and type, largest first. A
// transaction with several tags counts toward each of them.
func (s *statsService) CategoryTotals(userID uint, filter TransactionFilter) ([]models.CategoryTotal, error) {
	transactions, err := s.load(userID, filter)
	if err != nil {
		return nil, err
	}

	type key struct {
		category string
		txType   models.TransactionType
	}
	totals := map[key]*models.CategoryTotal{}
	for _, t := range transactions {
		tags := t.Tags
		if len(tags) == 0 {
			tags = []string{models.UncategorizedTag}
		}
		for _, tag := range tags {
			k := key{tag, t.Type}
			ct, ok := totals[k]
			if !ok {
				ct = &models.CategoryTotal{Category: tag, Type: t.Type, Total: decimal.Zero}
				totals[k] = ct
			}
			ct.Total = ct.Total.Add(t.Amount)
			ct.Count++
		}
	}

	out := make([]models.CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// DailyTotals returns one point per day that has transactions, oldest first.
func (s *statsService) DailyTotals(userID uint, filter TransactionFilter) ([]models.DailyTotal, error) {
	transactions, err := s.load(userID, filter)
	if err != nil {
		return nil, err
	}

	out := []models.DailyTotal{}
	for _, t := range transactions {
		if len(out) == 0 || out[len(out)-1].Date != t.Date {
			out = append(out, models.DailyTotal{Date: t.Date, Income: decimal.Zero, Expenses: decimal.Zero, Net: decimal.Zero})
		}
		day := &out[len(out)-1]
		if t.Type == models.TransactionTypeIncome {
			day.Income = day.Income.Add(t.Amount)
		} else {
			day.Expenses = day.Expenses.Add(t.Amount)
		}
		day.Net = day.Income.Sub(day.Expenses)
	}
	return out, nil
}

// Categories lists every tag the user has used, sorted.
func (s *statsService) Categories(userID uint) ([]string, error) {
	var rows []models.Transaction
	if err := s.db.Select("tags").Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	seen := map[string]bool{}
	out := []string{}
	for _, r := range rows {
		for _, tag := range r.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
