package services

import (
	"errors"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// UntitledNote is stored for notes saved without a title.
const UntitledNote = "Untitled"

var (
	policyOnce sync.Once
	bodyPolicy *bluemonday.Policy
)

// sanitizeBody strips scripts, handlers and anything else outside the
// user-generated-content policy from editor HTML.
func sanitizeBody(html string) string {
	policyOnce.Do(func() {
		bodyPolicy = bluemonday.UGCPolicy()
		bodyPolicy.AllowAttrs("class").OnElements("span", "code", "pre", "p", "li", "ul", "ol")
		bodyPolicy.AllowAttrs("data-checked").OnElements("li")
	})
	return bodyPolicy.Sanitize(html)
}

// noteService handles note-related business logic.
type noteService struct {
	db *gorm.DB
}

// NewNoteService creates a new NoteServicer.
func NewNoteService(db *gorm.DB) NoteServicer {
	return &noteService{db: db}
}

func (s *noteService) validate(userID uint, in *NoteInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		in.Title = UntitledNote
	}
	if len(in.Title) > 200 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be at most 200 characters")
	}
	in.Body = sanitizeBody(in.Body)
	in.Tags = models.Tags(in.Tags)
	_, err := findContext(s.db, userID, in.ContextID)
	return err
}

// CreateNote creates a note with a sanitised body.
func (s *noteService) CreateNote(userID uint, in NoteInput) (*models.Note, error) {
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}
	note := &models.Note{
		UserID:    userID,
		ContextID: in.ContextID,
		Title:     in.Title,
		Body:      in.Body,
		Tags:      in.Tags,
	}
	if err := s.db.Create(note).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return note, nil
}

// GetNoteByID retrieves a note by ID for a specific user
func (s *noteService) GetNoteByID(userID, noteID uint) (*models.Note, error) {
	var note models.Note
	if err := s.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &note, nil
}

// UpdateNote replaces a note's title, body and tags.
func (s *noteService) UpdateNote(userID, noteID uint, in NoteInput) (*models.Note, error) {
	note, err := s.GetNoteByID(userID, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}
	note.ContextID = in.ContextID
	note.Title = in.Title
	note.Body = in.Body
	note.Tags = in.Tags
	if err := s.db.Save(note).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return note, nil
}

// DeleteNote deletes a note.
func (s *noteService) DeleteNote(userID, noteID uint) error {
	note, err := s.GetNoteByID(userID, noteID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(note).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetContextNotes lists a context's notes, most recently edited first. With
// a range, only notes edited inside it are returned.
func (s *noteService) GetContextNotes(userID, contextID uint, dates DateFilter) ([]models.Note, error) {
	if _, err := findContext(s.db, userID, contextID); err != nil {
		return nil, err
	}
	q := s.db.Where("user_id = ? AND context_id = ?", userID, contextID)
	if from, to, ok := dates.bounds(); ok {
		q = q.Where("updated_at >= ? AND updated_at < ?", from, to)
	}
	notes := []models.Note{}
	if err := q.Order("updated_at DESC, id DESC").Find(&notes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return notes, nil
}
