package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
)

// EventHandler handles calendar event requests.
type EventHandler struct {
	eventService services.EventServicer
	auditService services.AuditServicer
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService services.EventServicer, auditService services.AuditServicer) *EventHandler {
	return &EventHandler{eventService: eventService, auditService: auditService}
}

// EventRequest represents the payload for creating or replacing an event.
// When endDate is omitted it is derived from durationHours.
type EventRequest struct {
	ContextID         uint                   `json:"contextId" binding:"required"`
	Title             string                 `json:"title" binding:"required,max=200"`
	Description       string                 `json:"description" binding:"max=5000"`
	StartDate         time.Time              `json:"startDate" binding:"required"`
	EndDate           time.Time              `json:"endDate"`
	AllDay            bool                   `json:"allDay"`
	DurationHours     *float64               `json:"durationHours" binding:"omitempty,gt=0"`
	Tags              []string               `json:"tags" binding:"max=20,dive,max=50"`
	Recurring         bool                   `json:"recurring"`
	RecurrenceType    *models.RecurrenceType `json:"recurrenceType" binding:"omitempty,recurrence_type"`
	RecurrenceEndDate *string                `json:"recurrenceEndDate"`
	Completed         bool                   `json:"completed"`
}

func (r EventRequest) input() services.EventInput {
	return services.EventInput{
		ContextID:         r.ContextID,
		Title:             r.Title,
		Description:       r.Description,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		AllDay:            r.AllDay,
		DurationHours:     r.DurationHours,
		Tags:              r.Tags,
		Recurring:         r.Recurring,
		RecurrenceType:    r.RecurrenceType,
		RecurrenceEndDate: r.RecurrenceEndDate,
		Completed:         r.Completed,
	}
}

// UnlinkEventRequest chooses whether the todo survives the unlink.
type UnlinkEventRequest struct {
	KeepTodo bool `json:"keepTodo"`
}

// CreateEvent handles the creation of a new event
// @Summary     Create an event
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EventRequest true "Event details"
// @Success     201 {object} map[string]models.Event "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "event", event.ID, c.ClientIP(),
		map[string]interface{}{"context_id": event.ContextID, "recurring": event.Recurring})

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// GetEventByID handles the retrieval of a single event
// @Summary     Get event by ID
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} map[string]models.Event "Event"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [get]
func (h *EventHandler) GetEventByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent handles replacing an event
// @Summary     Update event
// @Description Replace an event. A linked todo takes the new duration.
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int          true "Event ID"
// @Param       request body EventRequest true "Event details"
// @Success     200 {object} map[string]models.Event "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(userID, eventID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "event", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent handles deleting an event
// @Summary     Delete event
// @Description Delete an event. Its linked todo is deleted too unless preserveTodo is true.
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  int  true  "Event ID"
// @Param       preserveTodo query bool false "Keep the linked todo on the board"
// @Success     200 {object} MessageResponse "Event deleted"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	preserveTodo := queryFlag(c, "preserveTodo")
	if err := h.eventService.DeleteEvent(userID, eventID, preserveTodo); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "event", eventID, c.ClientIP(),
		map[string]interface{}{"preserve_todo": preserveTodo})

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// UnlinkEvent handles breaking an event's todo link
// @Summary     Unlink event
// @Description Break the link. The todo is deleted unless keepTodo is true.
// @Tags        events,todos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Event ID"
// @Param       request body UnlinkEventRequest true "Whether to keep the todo"
// @Success     200 {object} map[string]models.Event "Unlinked event"
// @Failure     400 {object} ErrorResponse "Event is not linked"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id}/unlink [post]
func (h *EventHandler) UnlinkEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UnlinkEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.UnlinkEvent(userID, eventID, req.KeepTodo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUnlink, "event", eventID, c.ClientIP(),
		map[string]interface{}{"keep_todo": req.KeepTodo})

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// GetContextEvents lists a context's events
// @Summary     Get context events
// @Description Events overlapping the range, plus recurring series that may repeat into it
// @Tags        contexts,events
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int    true  "Context ID"
// @Param       range query string false "day, week, month, year or all (default all)"
// @Param       date  query string false "Anchor date YYYY-MM-DD (default today)"
// @Success     200 {object} map[string][]models.Event "Events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /contexts/{id}/events [get]
func (h *EventHandler) GetContextEvents(c *gin.Context) {
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

	events, err := h.eventService.GetContextEvents(userID, contextID, dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
