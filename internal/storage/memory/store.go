// Package memory keeps tasks in a mutex guarded slice.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

// Store is a process local task store.
type Store struct {
	mu     sync.RWMutex
	tasks  []models.Task
	nextID int64
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store whose first task gets id 1.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{nextID: 1, logger: logger}
}

// Close is a no-op; the collection lives as long as the process.
func (s *Store) Close() error {
	return nil
}

// Create validates in, assigns the next id and stamps both timestamps.
func (s *Store) Create(_ context.Context, in models.NewTask) (models.Task, error) {
	t := in.Task()
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := storage.Now()
	t.ID = s.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.nextID++
	s.tasks = append(s.tasks, t)

	s.logger.Debug("task created", slog.Int64("id", t.ID))
	return t.Clone(), nil
}

// Get returns the task with the given id.
func (s *Store) Get(_ context.Context, id int64) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, models.NotFound(id)
	}
	return s.tasks[i].Clone(), nil
}

// Update writes the supplied fields of patch over the task and refreshes
// updated_at. The task is left untouched when the result would be invalid.
func (s *Store) Update(_ context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, models.NotFound(id)
	}

	current := s.tasks[i]
	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return models.Task{}, err
	}
	next.UpdatedAt = storage.Touch(current.UpdatedAt)
	s.tasks[i] = next

	s.logger.Debug("task updated", slog.Int64("id", id))
	return next.Clone(), nil
}

// Complete marks the task completed.
func (s *Store) Complete(ctx context.Context, id int64) (models.Task, error) {
	return s.Update(ctx, id, models.CompletePatch())
}

// Delete removes the task with the given id.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.NotFound(id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.logger.Debug("task deleted", slog.Int64("id", id))
	return nil
}

// ClearCompleted removes every completed task and reports how many went.
func (s *Store) ClearCompleted(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Status != models.StatusCompleted {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	clear(s.tasks[len(kept):])
	s.tasks = kept

	s.logger.Debug("completed tasks cleared", slog.Int("count", removed))
	return removed, nil
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
