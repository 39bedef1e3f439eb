package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tidylist/tidylist/internal/domain"
)

// TodoRepository implements domain.TodoRepository using SQLite. Every query
// carries a user_id predicate so a row owned by someone else behaves exactly
// like a missing row.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new SQLite-backed TodoRepository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db.SqlDB}
}

const todoColumns = "id, user_id, title, description, completed, priority, due_date, created_at, updated_at"

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (user_id, title, description, completed, priority, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.UserID, todo.Title, todo.Description, todo.Completed,
		string(todo.Priority), nullableTime(todo.DueDate), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	todo.ID = id
	todo.CreatedAt = now
	todo.UpdatedAt = now
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND user_id = ?`, id, userID)

	todo, err := scanTodo(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query todo by id: %w", err)
	}
	return todo, nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int64, filter domain.TodoFilter) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = ?`
	args := []any{userID}

	if filter.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *filter.Completed)
	}
	if filter.Priority != nil {
		query += " AND priority = ?"
		args = append(args, string(*filter.Priority))
	}
	query += " ORDER BY " + orderClause(filter.Sort)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		todo.Title, todo.Description, todo.Completed, string(todo.Priority),
		nullableTime(todo.DueDate), now, todo.ID, todo.UserID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	todo.UpdatedAt = now
	return nil
}

// Toggle flips the completed flag in a single UPDATE statement so two
// concurrent toggles cannot race through a read-modify-write cycle.
func (r *TodoRepository) Toggle(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET completed = NOT completed, updated_at = ? WHERE id = ? AND user_id = ?`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("toggle todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// orderClause translates a sort key into SQL ordering. Priority sorts high
// before medium before low with newest-first tie-break; due-date sorts
// ascending with NULL due dates last.
func orderClause(sort domain.SortKey) string {
	switch sort {
	case domain.SortOldest:
		return "created_at ASC"
	case domain.SortPriority:
		return "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, created_at DESC"
	case domain.SortDueDate:
		return "due_date IS NULL, due_date ASC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func scanTodo(scan func(dest ...any) error) (*domain.Todo, error) {
	todo := &domain.Todo{}
	var priority string
	var dueDate sql.NullTime
	err := scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
		&todo.Completed, &priority, &dueDate, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	todo.Priority = domain.Priority(priority)
	if dueDate.Valid {
		t := dueDate.Time
		todo.DueDate = &t
	}
	return todo, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
