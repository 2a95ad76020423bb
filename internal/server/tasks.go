package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/models"
	"tasktracker/internal/query"
)

// Priority and status may be omitted but not sent as null. Their ranges are
// checked by the store.
type createTaskRequest struct {
	Title       string                      `json:"title" binding:"required,min=1,max=100"`
	Description *string                     `json:"description" binding:"omitempty,max=500"`
	Priority    optional[int]               `json:"priority"`
	Status      optional[models.TaskStatus] `json:"status"`
}

func (r createTaskRequest) newTask() (models.NewTask, error) {
	if err := errors.Join(r.Priority.rejectNull("priority"), r.Status.rejectNull("status")); err != nil {
		return models.NewTask{}, err
	}
	return models.NewTask{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority.ptr(),
		Status:      r.Status.ptr(),
	}, nil
}

// updateTaskRequest tells an absent field from an explicit null. Only the
// description may be nulled.
type updateTaskRequest struct {
	Title       optional[string]            `json:"title"`
	Description optional[string]            `json:"description"`
	Priority    optional[int]               `json:"priority"`
	Status      optional[models.TaskStatus] `json:"status"`
}

func (r updateTaskRequest) patch() (models.TaskPatch, error) {
	err := errors.Join(
		r.Title.rejectNull("title"),
		r.Priority.rejectNull("priority"),
		r.Status.rejectNull("status"),
	)
	if err != nil {
		return models.TaskPatch{}, err
	}
	return models.TaskPatch{
		Title:            r.Title.ptr(),
		Description:      r.Description.ptr(),
		ClearDescription: r.Description.Set && r.Description.Null,
		Priority:         r.Priority.ptr(),
		Status:           r.Status.ptr(),
	}, nil
}

type listTasksQuery struct {
	Status   *models.TaskStatus `form:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority *int               `form:"priority" binding:"omitempty,min=1,max=5"`
	Skip     int                `form:"skip,default=0" binding:"min=0"`
	Limit    int                `form:"limit,default=10" binding:"min=1,max=100"`
}

// handleCreateTask validates the payload and stores a new task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}

	in, err := req.newTask()
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.store.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleListTasks filters and paginates the collection.
func (s *Server) handleListTasks(c *gin.Context) {
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondBindError(c, err)
		return
	}

	tasks, err := s.query.List(c.Request.Context(), query.Filter{
		Status:   q.Status,
		Priority: q.Priority,
		Skip:     q.Skip,
		Limit:    q.Limit,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleUpdateTask applies a partial update.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}

	patch, err := req.patch()
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Task %d deleted successfully", id)})
}

// handleCompleteTask marks a task completed.
func (s *Server) handleCompleteTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.Complete(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Task %d marked as completed", id),
		"task":    task,
	})
}

// handleTasksByPriority lists every task at one priority level.
func (s *Server) handleTasksByPriority(c *gin.Context) {
	raw := c.Param("level")
	level, err := strconv.Atoi(raw)
	if err != nil {
		s.respondError(c, models.NewValidationError("level", "must be an integer, got %q", raw))
		return
	}

	tasks, err := s.query.ByPriority(c.Request.Context(), level)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleSummary reports aggregate counts over the collection.
func (s *Server) handleSummary(c *gin.Context) {
	stats, err := s.query.Summary(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

// handleClearCompleted removes every completed task.
func (s *Server) handleClearCompleted(c *gin.Context) {
	count, err := s.store.ClearCompleted(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Cleared %d completed tasks", count),
		"count":   count,
	})
}
