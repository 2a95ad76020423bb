package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"tasktracker/internal/models"
	"tasktracker/internal/query"
	"tasktracker/internal/storage"
)

// Server provides HTTP handlers for the task tracker.
type Server struct {
	engine *gin.Engine
	store  storage.Store
	query  *query.Engine
	logger *slog.Logger
}

var bindingNamesOnce sync.Once

// New constructs the HTTP server with routes and middleware configured.
func New(store storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	bindingNamesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(models.FieldName)
		}
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine: router,
		store:  store,
		query:  query.New(store),
		logger: logger,
	}
	router.Use(srv.requestLogger())

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all task and item handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/healthz", s.handleHealth)

	s.engine.POST("/create-task", s.handleCreateTask)
	tasks := s.engine.Group("/tasks")
	{
		tasks.GET("", s.handleListTasks)
		tasks.GET("/stats/summary", s.handleSummary)
		tasks.GET("/priority/:level", s.handleTasksByPriority)
		tasks.DELETE("/completed/clear", s.handleClearCompleted)
		tasks.GET("/:id", s.handleGetTask)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.DELETE("/:id", s.handleDeleteTask)
		tasks.PATCH("/:id/complete", s.handleCompleteTask)
	}

	items := s.engine.Group("/items")
	{
		items.GET("/", s.handleListItems)
		items.POST("/", s.handleCreateItem)
		items.PUT("/:item_id", s.handleUpdateItem)
		items.DELETE("/:item_id", s.handleDeleteItem)
	}
	s.engine.GET("/users/:user_id/items/:item_id", s.handleUserItem)

	s.mountFallbacks()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64, answering 422 when it is not one.
func (s *Server) parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(c, models.NewValidationError(name, "must be an integer, got %q", raw))
		return 0, false
	}
	return id, true
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondError logs the error and writes it with the status its kind maps to.
func (s *Server) respondError(c *gin.Context, err error) {
	status, message, details := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}

	body := gin.H{"error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}

// respondBindError reports a request body or query that could not be decoded.
func (s *Server) respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		s.respondError(c, err)
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		s.respondError(c, models.NewValidationError(field, "must be of type %s", typeErr.Type))
		return
	}
	s.respondError(c, &models.ValidationError{Field: "body", Message: fmt.Sprintf("is invalid: %v", err)})
}

func classify(err error) (int, string, []fieldDetail) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]fieldDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, fieldDetail{Field: fe.Field(), Message: models.DescribeFieldError(fe)})
		}
		return http.StatusUnprocessableEntity, "validation failed", details
	}
	if details := joinedValidationDetails(err); details != nil {
		return http.StatusUnprocessableEntity, "validation failed", details
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, err.Error(), []fieldDetail{{Field: verr.Field, Message: verr.Message}}
	}
	if errors.Is(err, models.ErrTaskNotFound) {
		return http.StatusNotFound, err.Error(), nil
	}
	return http.StatusInternalServerError, "internal server error", nil
}

// joinedValidationDetails lists the fields of an errors.Join of validation
// errors. It returns nil unless every joined error is one.
func joinedValidationDetails(err error) []fieldDetail {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	errs := joined.Unwrap()
	details := make([]fieldDetail, 0, len(errs))
	for _, e := range errs {
		var verr *models.ValidationError
		if !errors.As(e, &verr) {
			return nil
		}
		details = append(details, fieldDetail{Field: verr.Field, Message: verr.Message})
	}
	return details
}

func respondSuccess(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}
