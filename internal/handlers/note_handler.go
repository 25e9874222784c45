package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
)

// NoteHandler handles note requests.
type NoteHandler struct {
	noteService  services.NoteServicer
	auditService services.AuditServicer
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService services.NoteServicer, auditService services.AuditServicer) *NoteHandler {
	return &NoteHandler{noteService: noteService, auditService: auditService}
}

// NoteRequest represents the payload for creating or replacing a note.
// Body is HTML and is sanitised before it is stored.
type NoteRequest struct {
	ContextID uint     `json:"contextId" binding:"required"`
	Title     string   `json:"title" binding:"max=200"`
	Body      string   `json:"body" binding:"max=200000"`
	Tags      []string `json:"tags" binding:"max=20,dive,max=50"`
}

func (r NoteRequest) input() services.NoteInput {
	return services.NoteInput{ContextID: r.ContextID, Title: r.Title, Body: r.Body, Tags: r.Tags}
}

// CreateNote handles the creation of a new note
// @Summary     Create a note
// @Tags        notes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NoteRequest true "Note details"
// @Success     201 {object} map[string]models.Note "Note created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.CreateNote(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "note", note.ID, c.ClientIP(),
		map[string]interface{}{"context_id": note.ContextID})

	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// GetNoteByID handles the retrieval of a single note
// @Summary     Get note by ID
// @Tags        notes
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Note ID"
// @Success     200 {object} map[string]models.Note "Note"
// @Failure     400 {object} ErrorResponse "Invalid note ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Note not found"
// @Router      /notes/{id} [get]
func (h *NoteHandler) GetNoteByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	noteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	note, err := h.noteService.GetNoteByID(userID, noteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// UpdateNote handles replacing a note; the editor autosaves through it
// @Summary     Update note
// @Tags        notes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Note ID"
// @Param       request body NoteRequest true "Note details"
// @Success     200 {object} map[string]models.Note "Updated note"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Note not found"
// @Router      /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	noteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.UpdateNote(userID, noteID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// DeleteNote handles deleting a note
// @Summary     Delete note
// @Tags        notes
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Note ID"
// @Success     200 {object} MessageResponse "Note deleted"
// @Failure     400 {object} ErrorResponse "Invalid note ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Note not found"
// @Router      /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	noteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.noteService.DeleteNote(userID, noteID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "note", noteID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

// GetContextNotes lists a context's notes, most recently edited first
// @Summary     Get context notes
// @Tags        contexts,notes
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int    true  "Context ID"
// @Param       range query string false "day, week, month, year or all (default all)"
// @Param       date  query string false "Anchor date YYYY-MM-DD (default today)"
// @Success     200 {object} map[string][]models.Note "Notes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /contexts/{id}/notes [get]
func (h *NoteHandler) GetContextNotes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contextID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	dates, err := parseDateFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notes, err := h.noteService.GetContextNotes(userID, contextID, dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}
