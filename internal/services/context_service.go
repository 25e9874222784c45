package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// DefaultContextEmoji is used when a context is saved without one.
const DefaultContextEmoji = "📁"

// contextService handles context-related business logic.
type contextService struct {
	db *gorm.DB
}

// NewContextService creates a new ContextServicer.
func NewContextService(db *gorm.DB) ContextServicer {
	return &contextService{db: db}
}

func normaliseContext(name, emoji string, fieldType models.FieldType) (string, string, models.FieldType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", "", apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		emoji = DefaultContextEmoji
	}
	if fieldType == "" {
		fieldType = models.FieldTypeExperimental
	}
	if !fieldType.Valid() {
		return "", "", "", apperrors.WithMessage(apperrors.ErrInvalidInput, "fieldType must be Revenue, Investment or Experimental")
	}
	return name, emoji, fieldType, nil
}

func (s *contextService) nameTaken(userID, exceptID uint, name string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Context{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", userID, name, exceptID).
		Count(&count).Error
	return count > 0, err
}

// CreateContext creates a context. Names are unique per user, ignoring case.
func (s *contextService) CreateContext(userID uint, name, emoji string, fieldType models.FieldType) (*models.Context, error) {
	name, emoji, fieldType, err := normaliseContext(name, emoji, fieldType)
	if err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(userID, 0, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateContext
	}

	c := &models.Context{UserID: userID, Name: name, Emoji: emoji, FieldType: fieldType}
	if err := s.db.Create(c).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return c, nil
}

// GetUserContexts lists the user's contexts, oldest first.
func (s *contextService) GetUserContexts(userID uint) ([]models.Context, error) {
	contexts := []models.Context{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&contexts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return contexts, nil
}

// GetContextByID retrieves a context by ID for a specific user
func (s *contextService) GetContextByID(userID, contextID uint) (*models.Context, error) {
	return findContext(s.db, userID, contextID)
}

// findContext is shared by every service that writes into a context.
func findContext(db *gorm.DB, userID, contextID uint) (*models.Context, error) {
	var c models.Context
	if err := db.Where("id = ? AND user_id = ?", contextID, userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContextNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &c, nil
}

// UpdateContext replaces a context's name, emoji and field type.
func (s *contextService) UpdateContext(userID, contextID uint, name, emoji string, fieldType models.FieldType) (*models.Context, error) {
	c, err := s.GetContextByID(userID, contextID)
	if err != nil {
		return nil, err
	}
	name, emoji, fieldType, err = normaliseContext(name, emoji, fieldType)
	if err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(userID, contextID, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateContext
	}

	c.Name, c.Emoji, c.FieldType = name, emoji, fieldType
	if err := s.db.Save(c).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return c, nil
}

// DeleteContext deletes a context with all of its transactions, todos,
// events and notes in one database transaction.
func (s *contextService) DeleteContext(userID, contextID uint) error {
	c, err := s.GetContextByID(userID, contextID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Transaction{}, &models.Todo{}, &models.Event{}, &models.Note{}} {
			if err := tx.Where("user_id = ? AND context_id = ?", userID, c.ID).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Delete(c).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
