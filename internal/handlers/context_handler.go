package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
)

// ContextHandler handles context-related requests.
type ContextHandler struct {
	contextService services.ContextServicer
	auditService   services.AuditServicer
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(contextService services.ContextServicer, auditService services.AuditServicer) *ContextHandler {
	return &ContextHandler{contextService: contextService, auditService: auditService}
}

// ContextRequest represents the payload for creating or replacing a context.
type ContextRequest struct {
	Name      string           `json:"name" binding:"required,max=100"`
	Emoji     string           `json:"emoji" binding:"omitempty,emoji"`
	FieldType models.FieldType `json:"fieldType" binding:"omitempty,field_type"`
}

// GetContexts lists the user's contexts
// @Summary     List contexts
// @Description Get every context of the authenticated user, oldest first
// @Tags        contexts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Context "Contexts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contexts [get]
func (h *ContextHandler) GetContexts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contexts, err := h.contextService.GetUserContexts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contexts": contexts})
}

// CreateContext handles the creation of a new context
// @Summary     Create a context
// @Description Create a context. Names are unique per user, ignoring case.
// @Tags        contexts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ContextRequest true "Context details"
// @Success     201 {object} map[string]models.Context "Context created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contexts [post]
func (h *ContextHandler) CreateContext(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContextRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, err := h.contextService.CreateContext(userID, req.Name, req.Emoji, req.FieldType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "context", ctx.ID, c.ClientIP(),
		map[string]interface{}{"name": ctx.Name, "field_type": ctx.FieldType})

	c.JSON(http.StatusCreated, gin.H{"context": ctx})
}

// GetContextByID handles the retrieval of a single context
// @Summary     Get context by ID
// @Tags        contexts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Context ID"
// @Success     200 {object} map[string]models.Context "Context"
// @Failure     400 {object} ErrorResponse "Invalid context ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /contexts/{id} [get]
func (h *ContextHandler) GetContextByID(c *gin.Context) {
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

	ctx, err := h.contextService.GetContextByID(userID, contextID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"context": ctx})
}

// UpdateContext handles replacing a context
// @Summary     Update context
// @Tags        contexts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Context ID"
// @Param       request body ContextRequest true "Context details"
// @Success     200 {object} map[string]models.Context "Updated context"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /contexts/{id} [put]
func (h *ContextHandler) UpdateContext(c *gin.Context) {
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

	var req ContextRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, err := h.contextService.UpdateContext(userID, contextID, req.Name, req.Emoji, req.FieldType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "context", contextID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"context": ctx})
}

// DeleteContext handles deleting a context and everything in it
// @Summary     Delete context
// @Description Delete a context together with its transactions, todos, events and notes
// @Tags        contexts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Context ID"
// @Success     200 {object} MessageResponse "Context deleted"
// @Failure     400 {object} ErrorResponse "Invalid context ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /contexts/{id} [delete]
func (h *ContextHandler) DeleteContext(c *gin.Context) {
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

	if err := h.contextService.DeleteContext(userID, contextID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "context", contextID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Context deleted successfully"})
}
