// Package query filters, paginates and aggregates the tasks held by a store.
package query

import (
	"context"
	"fmt"

	"tasktracker/internal/models"
)

// Pagination bounds for List.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Source supplies a consistent copy of the task collection.
type Source interface {
	Snapshot(ctx context.Context) ([]models.Task, error)
}

// Filter selects tasks for List. Nil filters match everything.
type Filter struct {
	Status   *models.TaskStatus
	Priority *int
	Skip     int
	Limit    int
}

// Matches reports whether t passes every filter that is set.
func (f Filter) Matches(t models.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	return true
}

// Stats is an aggregate view of the collection at one point in time.
type Stats struct {
	Total      int                       `json:"total"`
	ByStatus   map[models.TaskStatus]int `json:"by_status"`
	ByPriority map[int]int               `json:"by_priority"`
}

// Engine answers read queries over a Source.
type Engine struct {
	source Source
}

// New returns an engine reading from source.
func New(source Source) *Engine {
	return &Engine{source: source}
}

// List returns the tasks matching f in insertion order, windowed by Skip and
// Limit. A Skip past the last match yields an empty slice.
func (e *Engine) List(ctx context.Context, f Filter) ([]models.Task, error) {
	tasks, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	skip, limit := f.Skip, f.Limit
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	out := []models.Task{}
	matched := 0
	for _, t := range tasks {
		if !f.Matches(t) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ByPriority returns every task at the given priority level.
func (e *Engine) ByPriority(ctx context.Context, level int) ([]models.Task, error) {
	if err := models.ValidatePriority(level); err != nil {
		return nil, err
	}
	tasks, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("tasks by priority: %w", err)
	}

	out := []models.Task{}
	for _, t := range tasks {
		if t.Priority == level {
			out = append(out, t)
		}
	}
	return out, nil
}

// Summary counts tasks per status and per priority. Every status and every
// priority level is present, with zero when nothing matches.
func (e *Engine) Summary(ctx context.Context) (Stats, error) {
	tasks, err := e.source.Snapshot(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("summary: %w", err)
	}

	stats := Stats{
		Total:      len(tasks),
		ByStatus:   make(map[models.TaskStatus]int, len(models.AllStatuses())),
		ByPriority: make(map[int]int, models.MaxPriority),
	}
	for _, s := range models.AllStatuses() {
		stats.ByStatus[s] = 0
	}
	for p := models.MinPriority; p <= models.MaxPriority; p++ {
		stats.ByPriority[p] = 0
	}
	for _, t := range tasks {
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
	}
	return stats, nil
}
