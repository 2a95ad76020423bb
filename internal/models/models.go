package models

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Field limits shared by request decoding and domain validation.
const (
	MinPriority          = 1
	MaxPriority          = 5
	DefaultPriority      = 1
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// AllStatuses lists every status in declaration order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the declared statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of trackable work.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"required,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	Priority    int        `json:"priority" validate:"min=1,max=5"`
	Status      TaskStatus `json:"status" validate:"required,oneof=pending in_progress completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

// NewTask holds the caller supplied fields of a task about to be created.
// A nil Priority or Status selects the default.
type NewTask struct {
	Title       string
	Description *string
	Priority    *int
	Status      *TaskStatus
}

// Task builds the task described by n with defaults applied. ID and timestamps
// are left for the store to assign.
func (n NewTask) Task() Task {
	t := Task{
		Title:       n.Title,
		Description: n.Description,
		Priority:    DefaultPriority,
		Status:      StatusPending,
	}
	if n.Priority != nil {
		t.Priority = *n.Priority
	}
	if n.Status != nil {
		t.Status = *n.Status
	}
	return t.Clone()
}

// TaskPatch is a partial update. Nil fields are left unchanged.
// ClearDescription sets the description to null and wins over Description.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Priority         *int
	Status           *TaskStatus
}

// Apply returns t with every supplied field of p written over it.
func (p TaskPatch) Apply(t Task) Task {
	t = t.Clone()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.ClearDescription {
		t.Description = nil
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

// CompletePatch marks a task completed.
func CompletePatch() TaskPatch {
	status := StatusCompleted
	return TaskPatch{Status: &status}
}
