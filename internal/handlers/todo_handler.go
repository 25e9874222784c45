package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
)

// TodoHandler handles todo-related requests, including the todo side of
// calendar links.
type TodoHandler struct {
	todoService  services.TodoServicer
	auditService services.AuditServicer
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService services.TodoServicer, auditService services.AuditServicer) *TodoHandler {
	return &TodoHandler{todoService: todoService, auditService: auditService}
}

// TodoRequest represents the payload for creating or replacing a todo.
// DueDate is YYYY-MM-DD and DueTime HH:MM; blank values clear them.
type TodoRequest struct {
	ContextID     uint              `json:"contextId" binding:"required"`
	Title         string            `json:"title" binding:"required,max=200"`
	Description   string            `json:"description" binding:"max=5000"`
	Priority      models.Priority   `json:"priority" binding:"omitempty,priority"`
	Status        models.TodoStatus `json:"status" binding:"omitempty,todo_status"`
	DueDate       *string           `json:"dueDate"`
	DueTime       *string           `json:"dueTime"`
	DurationHours *float64          `json:"durationHours" binding:"omitempty,gt=0"`
	Tags          []string          `json:"tags" binding:"max=20,dive,max=50"`
}

func (r TodoRequest) input() services.TodoInput {
	return services.TodoInput{
		ContextID:     r.ContextID,
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		Status:        r.Status,
		DueDate:       r.DueDate,
		DueTime:       r.DueTime,
		DurationHours: r.DurationHours,
		Tags:          r.Tags,
	}
}

// MoveTodoRequest places a todo in a board column at a zero-based position.
type MoveTodoRequest struct {
	Status   models.TodoStatus `json:"status" binding:"required,todo_status"`
	Position int               `json:"position" binding:"min=0"`
}

// ScheduleTodoRequest describes the event created for a todo. Without a
// start the todo's due date and time are used.
type ScheduleTodoRequest struct {
	Start         *time.Time `json:"start"`
	DurationHours *float64   `json:"durationHours" binding:"omitempty,gt=0"`
	AllDay        bool       `json:"allDay"`
}

// LinkTodoRequest names the event to link.
type LinkTodoRequest struct {
	EventID uint `json:"eventId" binding:"required"`
}

// UnlinkTodoRequest chooses whether the event survives the unlink.
type UnlinkTodoRequest struct {
	KeepEvent bool `json:"keepEvent"`
}

// CreateTodo handles the creation of a new todo
// @Summary     Create a todo
// @Description Create a todo at the end of its board column
// @Tags        todos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TodoRequest true "Todo details"
// @Success     201 {object} map[string]models.Todo "Todo created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /todos [post]
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.todoService.CreateTodo(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "todo", todo.ID, c.ClientIP(),
		map[string]interface{}{"context_id": todo.ContextID, "status": todo.Status})

	c.JSON(http.StatusCreated, gin.H{"todo": todo})
}

// GetTodoByID handles the retrieval of a single todo
// @Summary     Get todo by ID
// @Tags        todos
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Todo ID"
// @Success     200 {object} map[string]models.Todo "Todo"
// @Failure     400 {object} ErrorResponse "Invalid todo ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo not found"
// @Router      /todos/{id} [get]
func (h *TodoHandler) GetTodoByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	todo, err := h.todoService.GetTodoByID(userID, todoID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// UpdateTodo handles replacing a todo
// @Summary     Update todo
// @Description Replace a todo. A status change moves it to the end of the new column.
// @Tags        todos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Todo ID"
// @Param       request body TodoRequest true "Todo details"
// @Success     200 {object} map[string]models.Todo "Updated todo"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo not found"
// @Router      /todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.todoService.UpdateTodo(userID, todoID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "todo", todoID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// DeleteTodo handles deleting a todo
// @Summary     Delete todo
// @Description Delete a todo. Its linked event is deleted too unless preserveTime is true.
// @Tags        todos
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  int  true  "Todo ID"
// @Param       preserveTime query bool false "Keep the linked event on the calendar"
// @Success     200 {object} MessageResponse "Todo deleted"
// @Failure     400 {object} ErrorResponse "Invalid todo ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo not found"
// @Router      /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	preserveTime := queryFlag(c, "preserveTime")
	if err := h.todoService.DeleteTodo(userID, todoID, preserveTime); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "todo", todoID, c.ClientIP(),
		map[string]interface{}{"preserve_time": preserveTime})

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// GetContextTodos lists a context's todos in board order
// @Summary     Get context todos
// @Description Todos due in the range, plus todos without a due date
// @Tags        contexts,todos
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int    true  "Context ID"
// @Param       range query string false "day, week, month, year or all (default all)"
// @Param       date  query string false "Anchor date YYYY-MM-DD (default today)"
// @Success     200 {object} map[string][]models.Todo "Todos"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Context not found"
// @Router      /contexts/{id}/todos [get]
func (h *TodoHandler) GetContextTodos(c *gin.Context) {
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

	todos, err := h.todoService.GetContextTodos(userID, contextID, dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// MoveTodo handles dragging a todo on the board
// @Summary     Move todo
// @Tags        todos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true "Todo ID"
// @Param       request body MoveTodoRequest true "Target column and position"
// @Success     200 {object} map[string]models.Todo "Moved todo"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo not found"
// @Router      /todos/{id}/move [post]
func (h *TodoHandler) MoveTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MoveTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.todoService.MoveTodo(userID, todoID, req.Status, req.Position)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditMove, "todo", todoID, c.ClientIP(),
		map[string]interface{}{"status": req.Status, "position": todo.Position})

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// ScheduleTodo handles putting a todo on the calendar
// @Summary     Schedule todo
// @Description Create a calendar event for the todo and link the two
// @Tags        todos,events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Todo ID"
// @Param       request body ScheduleTodoRequest true "Event window"
// @Success     201 {object} map[string]interface{} "Linked todo and event"
// @Failure     400 {object} ErrorResponse "Invalid input or todo without due date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo not found"
// @Failure     409 {object} ErrorResponse "Todo already linked"
// @Router      /todos/{id}/schedule [post]
func (h *TodoHandler) ScheduleTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ScheduleTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, event, err := h.todoService.ScheduleTodo(userID, todoID, services.ScheduleInput{
		Start:         req.Start,
		DurationHours: req.DurationHours,
		AllDay:        req.AllDay,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditLink, "todo", todoID, c.ClientIP(),
		map[string]interface{}{"event_id": event.ID, "scheduled": true})

	c.JSON(http.StatusCreated, gin.H{"todo": todo, "event": event})
}

// LinkTodo handles linking a todo to an existing event
// @Summary     Link todo to event
// @Tags        todos,events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true "Todo ID"
// @Param       request body LinkTodoRequest true "Event to link"
// @Success     200 {object} map[string]interface{} "Linked todo and event"
// @Failure     400 {object} ErrorResponse "Invalid input or context mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo or event not found"
// @Failure     409 {object} ErrorResponse "Already linked"
// @Router      /todos/{id}/link [post]
func (h *TodoHandler) LinkTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req LinkTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, event, err := h.todoService.LinkTodo(userID, todoID, req.EventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditLink, "todo", todoID, c.ClientIP(),
		map[string]interface{}{"event_id": req.EventID})

	c.JSON(http.StatusOK, gin.H{"todo": todo, "event": event})
}

// UnlinkTodo handles breaking a todo's calendar link
// @Summary     Unlink todo
// @Description Break the link. The event is deleted unless keepEvent is true.
// @Tags        todos,events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Todo ID"
// @Param       request body UnlinkTodoRequest true "Whether to keep the event"
// @Success     200 {object} map[string]models.Todo "Unlinked todo"
// @Failure     400 {object} ErrorResponse "Todo is not linked"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Todo not found"
// @Router      /todos/{id}/unlink [post]
func (h *TodoHandler) UnlinkTodo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	todoID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UnlinkTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.todoService.UnlinkTodo(userID, todoID, req.KeepEvent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUnlink, "todo", todoID, c.ClientIP(),
		map[string]interface{}{"keep_event": req.KeepEvent})

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}
