package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidylist/tidylist/internal/domain"
	"github.com/tidylist/tidylist/internal/service"
)

// TodoHandler handles todo HTTP requests. All routes are behind RequireAuth,
// so UserFromContext always resolves; the authenticated user's id is the only
// owner id ever passed to the service.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// HandleList returns the authenticated user's todos.
// GET /api/todos?completed=true&priority=high&sort=oldest|priority|dueDate
// Response: {"success":true,"count":N,"data":[...]}
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	filter, err := parseListFilter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	todos, err := h.todos.List(r.Context(), user.ID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeList(w, http.StatusOK, toTodoDTOs(todos), len(todos))
}

// HandleGet returns a single todo.
// GET /api/todos/{id}
func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NotFound", "Todo not found.")
		return
	}

	todo, err := h.todos.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toTodoDTO(todo))
}

// HandleCreate creates a new todo for the authenticated user.
// POST /api/todos
// Request: {"title":"...","description":"...","priority":"low|medium|high","dueDate":"..."}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		DueDate     string `json:"dueDate"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "Invalid request body.")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), user.ID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     dueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, toTodoDTO(todo))
}

// HandleUpdate applies a partial update to a todo.
// PUT /api/todos/{id}
// Request: any subset of {"title","description","completed","priority","dueDate"}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NotFound", "Todo not found.")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"dueDate"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "Invalid request body.")
		return
	}

	input := service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		input.Priority = &p
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		input.DueDate = dueDate
	}

	todo, err := h.todos.Update(r.Context(), user.ID, id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toTodoDTO(todo))
}

// HandleToggle flips a todo's completion status.
// PATCH /api/todos/{id}/toggle
func (h *TodoHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NotFound", "Todo not found.")
		return
	}

	todo, err := h.todos.Toggle(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toTodoDTO(todo))
}

// HandleDelete permanently removes a todo.
// DELETE /api/todos/{id}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NotFound", "Todo not found.")
		return
	}

	if err := h.todos.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Todo deleted successfully.",
	})
}

// parseListFilter reads the optional completed, priority and sort query
// parameters. An unknown sort value falls back to the newest-first default;
// a malformed completed or priority value is rejected.
func parseListFilter(r *http.Request) (domain.TodoFilter, error) {
	filter := domain.TodoFilter{Sort: domain.SortNewest}
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("%w: completed must be true or false", domain.ErrInvalidInput)
		}
		filter.Completed = &completed
	}

	if v := q.Get("priority"); v != "" {
		p := domain.Priority(v)
		filter.Priority = &p
	}

	switch q.Get("sort") {
	case "oldest":
		filter.Sort = domain.SortOldest
	case "priority":
		filter.Sort = domain.SortPriority
	case "dueDate":
		filter.Sort = domain.SortDueDate
	}

	return filter, nil
}

// parseDueDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
// An empty string means no due date.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: dueDate must be an RFC 3339 timestamp or YYYY-MM-DD date", domain.ErrInvalidInput)
}
