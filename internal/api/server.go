// Package api exposes the task management HTTP surface.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/infrastructure/storage"
	"github.com/sh1dan/infoseek/internal/ports"
)

// Enqueuer accepts scrape requests for background execution.
type Enqueuer interface {
	Enqueue(req domain.ScrapeRequest) error
}

// Server handles the task API on top of the repository and the dispatcher.
type Server struct {
	repo   ports.TaskRepository
	queue  Enqueuer
	logger *slog.Logger
}

// NewServer builds the API component.
func NewServer(repo ports.TaskRepository, queue Enqueuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repo: repo, queue: queue, logger: logger}
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Keyword      string `json:"keyword"`
	ArticleCount *int   `json:"article_count"`
}

// ErrorResponse is the envelope for all error replies.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Router configures the Gin router with all task routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/tasks")
	api.POST("", s.HandleCreateTask)
	api.GET("", s.HandleListTasks)
	api.GET("/:id", s.HandleGetTask)

	return router
}

// HandleCreateTask handles POST /api/tasks: persists a pending task and
// hands it to the dispatcher.
func (s *Server) HandleCreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, "invalid_body", "Request body must be JSON: "+err.Error())
		return
	}
	if req.Keyword == "" {
		s.writeError(c, http.StatusBadRequest, "missing_keyword", "Field 'keyword' is required")
		return
	}

	count := domain.DefaultArticleCount
	if req.ArticleCount != nil {
		count = *req.ArticleCount
	}
	if !domain.ValidArticleCount(count) {
		s.writeError(c, http.StatusBadRequest, "invalid_article_count", "Field 'article_count' must be between 1 and 20")
		return
	}

	task := domain.SearchTask{
		ID:           uuid.NewString(),
		Keyword:      req.Keyword,
		ArticleCount: count,
		Status:       domain.StatusPending,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateTask(c.Request.Context(), task); err != nil {
		s.writeError(c, http.StatusInternalServerError, "internal_error", "Failed to create task: "+err.Error())
		return
	}

	err := s.queue.Enqueue(domain.ScrapeRequest{
		TaskID:       task.ID,
		Keyword:      task.Keyword,
		ArticleCount: task.ArticleCount,
	})
	if err != nil {
		s.logger.Error("enqueue failed", "task", task.ID, "error", err)
		if uerr := s.repo.UpdateStatus(c.Request.Context(), task.ID, domain.StatusFailed); uerr != nil {
			s.logger.Error("status update failed", "task", task.ID, "error", uerr)
		}
		s.writeError(c, http.StatusServiceUnavailable, "queue_full", "Task could not be scheduled, try again later")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// HandleListTasks handles GET /api/tasks.
func (s *Server) HandleListTasks(c *gin.Context) {
	tasks, err := s.repo.ListTasks(c.Request.Context())
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, "internal_error", "Failed to list tasks: "+err.Error())
		return
	}
	if tasks == nil {
		tasks = []domain.SearchTask{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

// HandleGetTask handles GET /api/tasks/:id.
func (s *Server) HandleGetTask(c *gin.Context) {
	id := c.Param("id")
	task, err := s.repo.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			s.writeError(c, http.StatusNotFound, "not_found", "Task not found: "+id)
			return
		}
		s.writeError(c, http.StatusInternalServerError, "internal_error", "Failed to load task: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
