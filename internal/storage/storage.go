// Package storage defines the contract shared by the task store backends.
package storage

import (
	"context"
	"time"

	"tasktracker/internal/models"
)

// Store owns the task collection and the id counter. Every mutation is
// atomic with respect to every other call.
type Store interface {
	Create(ctx context.Context, in models.NewTask) (models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) (models.Task, error)
	ClearCompleted(ctx context.Context) (int, error)
	// Snapshot returns a copy of every task in insertion order.
	Snapshot(ctx context.Context) ([]models.Task, error)
	Close() error
}

// Now returns the current wall clock time in UTC without a monotonic reading.
func Now() time.Time {
	return time.Now().UTC()
}

// Touch returns a timestamp for a mutation of a record last updated at prev.
// The result is always strictly after prev.
func Touch(prev time.Time) time.Time {
	now := Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
