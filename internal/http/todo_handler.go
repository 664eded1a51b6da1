package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/service"
)

// TodoHandler expone el CRUD de tareas del usuario autenticado.
type TodoHandler struct {
	logger  *zap.Logger
	todoSvc *service.TodoService
}

func NewTodoHandler(logger *zap.Logger, todoSvc *service.TodoService) *TodoHandler {
	return &TodoHandler{logger: logger, todoSvc: todoSvc}
}

// List maneja GET /api/v1/todos?skip=&limit=.
func (h *TodoHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultTodoLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	todos, err := h.todoSvc.List(c.Request.Context(), user, skip, limit)
	if err != nil {
		h.writeError(c, "list todos failed", err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// Create maneja POST /api/v1/todos.
func (h *TodoHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		IsCompleted bool   `json:"is_completed"`
		UserID      string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create todo request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	todo, err := h.todoSvc.Create(c.Request.Context(), user, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		UserID:      req.UserID,
	})
	if err != nil {
		h.writeError(c, "create todo failed", err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// Get maneja GET /api/v1/todos/:id.
func (h *TodoHandler) Get(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	todo, err := h.todoSvc.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.writeError(c, "get todo failed", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Update maneja PUT /api/v1/todos/:id con semantica de actualizacion parcial.
func (h *TodoHandler) Update(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsCompleted *bool   `json:"is_completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update todo request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	todo, err := h.todoSvc.Update(c.Request.Context(), user, c.Param("id"), domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.writeError(c, "update todo failed", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Delete maneja DELETE /api/v1/todos/:id.
func (h *TodoHandler) Delete(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	if err := h.todoSvc.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.writeError(c, "delete todo failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "todo deleted"})
}

func (h *TodoHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions"})
	case errors.Is(err, service.ErrTodoInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
