package domain

import (
	"context"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "dueDate"
)

// Todo is a single task owned by exactly one user. ID, UserID and CreatedAt
// are immutable once the record exists.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoFilter narrows and orders List results. Nil fields mean no constraint;
// set fields combine with logical AND.
type TodoFilter struct {
	Completed *bool
	Priority  *Priority
	Sort      SortKey
}

// TodoRepository defines persistence operations for todos. Every read and
// write is scoped by the owning user id: a row belonging to another user is
// indistinguishable from a missing row (ErrNotFound for both).
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, userID, id int64) (*Todo, error)
	ListByUser(ctx context.Context, userID int64, filter TodoFilter) ([]Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Toggle(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}
