package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/pagination"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validate checks the input and fills in defaults.
func (s *transactionService) validate(userID uint, in *TransactionInput) error {
	if !in.Type.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if !in.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	in.Amount = in.Amount.Round(2)
	in.Date = strings.TrimSpace(in.Date)
	if in.Date == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if _, err := timeutil.ParseDate(in.Date, nil); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = models.Tags(in.Tags)
	if in.ContextID != nil {
		if _, err := findContext(s.db, userID, *in.ContextID); err != nil {
			return err
		}
	}
	return nil
}

// CreateTransaction records an income or expense, optionally inside a context.
func (s *transactionService) CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		ContextID:   in.ContextID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Tags:        in.Tags,
		Date:        in.Date,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// UpdateTransaction replaces every writable field of a transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}

	transaction.ContextID = in.ContextID
	transaction.Type = in.Type
	transaction.Amount = in.Amount
	transaction.Description = in.Description
	transaction.Tags = in.Tags
	transaction.Date = in.Date
	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page = page.Normalize()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(page.Scope).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page, totalItems)
	return &result, nil
}

// GetContextTransactions lists every transaction of a context in the range, newest first.
func (s *transactionService) GetContextTransactions(userID, contextID uint, dates DateFilter) ([]models.Transaction, error) {
	if _, err := findContext(s.db, userID, contextID); err != nil {
		return nil, err
	}
	transactions := []models.Transaction{}
	q := applyTransactionFilters(s.db.Where("user_id = ?", userID), TransactionFilter{ContextID: &contextID, Dates: dates})
	if err := q.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.ContextID != nil {
		q = q.Where("context_id = ?", *f.ContextID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if from, to, ok := f.Dates.dateBounds(); ok {
		q = q.Where("date >= ? AND date < ?", from, to)
	}
	return q
}
