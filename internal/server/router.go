// Package server assembles services, handlers and middleware into the HTTP
// router served by cmd/api.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianpop47/second-brain-app-sub000/internal/handlers"
	"github.com/adrianpop47/second-brain-app-sub000/internal/middleware"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
)

// Options tweaks router construction.
type Options struct {
	// CORSOrigin is a comma separated allow list, "*" for any.
	CORSOrigin string
	// RequestLogging enables the zap access log.
	RequestLogging bool
}

// NewRouter wires every service against db and registers the API routes.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	contextService := services.NewContextService(db)
	transactionService := services.NewTransactionService(db)
	statsService := services.NewStatsService(db)
	todoService := services.NewTodoService(db)
	eventService := services.NewEventService(db)
	noteService := services.NewNoteService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	contextHandler := handlers.NewContextHandler(contextService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	statsHandler := handlers.NewStatsHandler(statsService)
	todoHandler := handlers.NewTodoHandler(todoService, auditService)
	eventHandler := handlers.NewEventHandler(eventService, auditService)
	noteHandler := handlers.NewNoteHandler(noteService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.CORS(opts.CORSOrigin))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NotFound())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	contexts := protected.Group("/contexts")
	contexts.GET("", contextHandler.GetContexts)
	contexts.POST("", contextHandler.CreateContext)
	contexts.GET("/:id", contextHandler.GetContextByID)
	contexts.PUT("/:id", contextHandler.UpdateContext)
	contexts.DELETE("/:id", contextHandler.DeleteContext)
	contexts.GET("/:id/transactions", transactionHandler.GetContextTransactions)
	contexts.GET("/:id/todos", todoHandler.GetContextTodos)
	contexts.GET("/:id/events", eventHandler.GetContextEvents)
	contexts.GET("/:id/notes", noteHandler.GetContextNotes)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	stats := protected.Group("/stats")
	stats.GET("/summary", statsHandler.GetSummary)
	stats.GET("/categories", statsHandler.GetCategoryTotals)
	stats.GET("/daily", statsHandler.GetDailyTotals)
	protected.GET("/categories", statsHandler.GetCategories)

	todos := protected.Group("/todos")
	todos.POST("", todoHandler.CreateTodo)
	todos.GET("/:id", todoHandler.GetTodoByID)
	todos.PUT("/:id", todoHandler.UpdateTodo)
	todos.DELETE("/:id", todoHandler.DeleteTodo)
	todos.POST("/:id/move", todoHandler.MoveTodo)
	todos.POST("/:id/schedule", todoHandler.ScheduleTodo)
	todos.POST("/:id/link", todoHandler.LinkTodo)
	todos.POST("/:id/unlink", todoHandler.UnlinkTodo)

	events := protected.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("/:id", eventHandler.GetEventByID)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)
	events.POST("/:id/unlink", eventHandler.UnlinkEvent)

	notes := protected.Group("/notes")
	notes.POST("", noteHandler.CreateNote)
	notes.GET("/:id", noteHandler.GetNoteByID)
	notes.PUT("/:id", noteHandler.UpdateNote)
	notes.DELETE("/:id", noteHandler.DeleteNote)

	return router
}
