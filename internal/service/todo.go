package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidylist/tidylist/internal/domain"
)

// TodoService performs ownership-scoped CRUD and query operations on todos.
// Every operation takes the owner id resolved by authentication; a user id
// arriving in request input is never trusted. The service never holds a lock
// across store calls: a concurrent update on the same todo resolves as
// last-write-wins at the store.
type TodoService struct {
	todos domain.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos domain.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// CreateTodoInput carries the caller-supplied fields for a new todo.
// Priority defaults to medium when empty.
type CreateTodoInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
}

// UpdateTodoInput is a partial update; nil fields are left untouched.
// The todo's id, owner, and creation time are never updatable.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *domain.Priority
	DueDate     *time.Time
}

// List returns the owner's todos matching the filter, ordered by its sort
// key. An empty result is an empty slice, not an error.
func (s *TodoService) List(ctx context.Context, ownerID int64, filter domain.TodoFilter) ([]domain.Todo, error) {
	if filter.Priority != nil && !domain.ValidPriority(*filter.Priority) {
		return nil, fmt.Errorf("%w: priority must be low, medium, or high", domain.ErrInvalidInput)
	}

	todos, err := s.todos.ListByUser(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Get returns a single todo owned by ownerID. A todo that does not exist and
// a todo owned by someone else produce the identical domain.ErrNotFound, so
// callers cannot probe for other users' data.
func (s *TodoService) Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	return s.todos.GetByID(ctx, ownerID, id)
}

// Create validates the input and persists a new todo owned by ownerID.
func (s *TodoService) Create(ctx context.Context, ownerID int64, input CreateTodoInput) (*domain.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be low, medium, or high", domain.ErrInvalidInput)
	}

	todo := &domain.Todo{
		UserID:      ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Completed:   false,
		Priority:    priority,
		DueDate:     input.DueDate,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update applies the supplied fields to an existing todo. Ownership resolves
// as in Get. A supplied title is re-validated for non-emptiness.
func (s *TodoService) Update(ctx context.Context, ownerID, id int64, input UpdateTodoInput) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
		}
		todo.Title = title
	}
	if input.Description != nil {
		todo.Description = strings.TrimSpace(*input.Description)
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, fmt.Errorf("%w: priority must be low, medium, or high", domain.ErrInvalidInput)
		}
		todo.Priority = *input.Priority
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Toggle flips the todo's completed flag as a single atomic store write and
// returns the updated record.
func (s *TodoService) Toggle(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	if err := s.todos.Toggle(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.todos.GetByID(ctx, ownerID, id)
}

// Delete permanently removes a todo owned by ownerID.
func (s *TodoService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.todos.Delete(ctx, ownerID, id)
}
