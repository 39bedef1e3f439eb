package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tidylist/tidylist/internal/domain"
	"github.com/tidylist/tidylist/internal/service"
)

func newTestTodoService(t *testing.T) (*service.TodoService, *domain.User, *domain.User) {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	users := db.Users()
	alice := &domain.User{Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "hash"}
	bob := &domain.User{Email: "bob@example.com", DisplayName: "Bob", PasswordHash: "hash"}
	if err := users.Create(ctx, alice); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if err := users.Create(ctx, bob); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	return service.NewTodoService(db.Todos()), alice, bob
}

// mustCreate creates a todo and fails the test on error. A short sleep keeps
// creation timestamps strictly increasing so ordering assertions are stable.
func mustCreate(t *testing.T, todos *service.TodoService, ownerID int64, input service.CreateTodoInput) *domain.Todo {
	t.Helper()
	todo, err := todos.Create(context.Background(), ownerID, input)
	if err != nil {
		t.Fatalf("Create %q: %v", input.Title, err)
	}
	time.Sleep(10 * time.Millisecond)
	return todo
}

func TestTodoService_Create_Defaults(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, err := todos.Create(ctx, alice.ID, service.CreateTodoInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if todo.ID == 0 {
		t.Fatal("expected todo ID to be set")
	}
	if todo.UserID != alice.ID {
		t.Fatalf("expected owner %d, got %d", alice.ID, todo.UserID)
	}
	if todo.Completed {
		t.Fatal("expected new todo to be incomplete")
	}
	if todo.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", todo.Priority)
	}
	if todo.DueDate != nil {
		t.Fatal("expected no due date")
	}
	if todo.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestTodoService_Create_TrimsTitle(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	todo, err := todos.Create(context.Background(), alice.ID, service.CreateTodoInput{Title: "  Walk the dog  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.Title != "Walk the dog" {
		t.Fatalf("expected trimmed title, got %q", todo.Title)
	}
}

func TestTodoService_Create_EmptyTitle(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := todos.Create(ctx, alice.ID, service.CreateTodoInput{Title: title})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("title %q: expected ErrInvalidInput, got %v", title, err)
		}
	}

	// Nothing was persisted.
	list, err := todos.List(ctx, alice.ID, domain.TodoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no todos persisted, got %d", len(list))
	}
}

func TestTodoService_Create_InvalidPriority(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	_, err := todos.Create(context.Background(), alice.ID, service.CreateTodoInput{
		Title:    "Bad priority",
		Priority: "urgent",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown priority, got %v", err)
	}
}

func TestTodoService_Get_OwnershipScoped(t *testing.T) {
	todos, alice, bob := newTestTodoService(t)
	ctx := context.Background()

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Alice's todo"})

	got, err := todos.Get(ctx, alice.ID, created.ID)
	if err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if got.ID != created.ID || got.Title != "Alice's todo" {
		t.Fatalf("unexpected todo: %+v", got)
	}

	// Another user sees the same NotFound as a truly missing id.
	_, err = todos.Get(ctx, bob.ID, created.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}

	_, err = todos.Get(ctx, alice.ID, 99999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestTodoService_Update_Partial(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{
		Title:       "Original",
		Description: "Original description",
	})

	newTitle := "Renamed"
	updated, err := todos.Update(ctx, alice.ID, created.ID, service.UpdateTodoInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "Renamed" {
		t.Fatalf("expected title Renamed, got %q", updated.Title)
	}
	if updated.Description != "Original description" {
		t.Fatalf("expected description untouched, got %q", updated.Description)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected id unchanged, got %d", updated.ID)
	}
	if updated.UserID != alice.ID {
		t.Fatalf("expected owner unchanged, got %d", updated.UserID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected CreatedAt unchanged: %v vs %v", updated.CreatedAt, created.CreatedAt)
	}
}

func TestTodoService_Update_EmptyTitleRejected(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Keep me"})

	empty := "   "
	_, err := todos.Update(ctx, alice.ID, created.ID, service.UpdateTodoInput{Title: &empty})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Title unchanged after the failed update.
	got, err := todos.Get(ctx, alice.ID, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Keep me" {
		t.Fatalf("expected title unchanged, got %q", got.Title)
	}
}

func TestTodoService_Update_InvalidPriorityRejected(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Priorities"})

	bad := domain.Priority("critical")
	_, err := todos.Update(context.Background(), alice.ID, created.ID, service.UpdateTodoInput{Priority: &bad})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTodoService_Update_OtherOwnerNotFound(t *testing.T) {
	todos, alice, bob := newTestTodoService(t)

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Alice only"})

	newTitle := "Hijacked"
	_, err := todos.Update(context.Background(), bob.ID, created.ID, service.UpdateTodoInput{Title: &newTitle})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTodoService_Toggle_IsItsOwnInverse(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Flip me"})

	once, err := todos.Toggle(ctx, alice.ID, created.ID)
	if err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	if !once.Completed {
		t.Fatal("expected completed=true after first toggle")
	}

	twice, err := todos.Toggle(ctx, alice.ID, created.ID)
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if twice.Completed {
		t.Fatal("expected completed=false after second toggle")
	}
}

func TestTodoService_Toggle_OtherOwnerNotFound(t *testing.T) {
	todos, alice, bob := newTestTodoService(t)

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Private"})

	_, err := todos.Toggle(context.Background(), bob.ID, created.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTodoService_Delete_ThenGetNotFound(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Ephemeral"})

	if err := todos.Delete(ctx, alice.ID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := todos.Get(ctx, alice.ID, created.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again also reports NotFound.
	if err := todos.Delete(ctx, alice.ID, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestTodoService_Delete_OtherOwnerNotFound(t *testing.T) {
	todos, alice, bob := newTestTodoService(t)
	ctx := context.Background()

	created := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Still here"})

	if err := todos.Delete(ctx, bob.ID, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Alice's todo survived Bob's attempt.
	if _, err := todos.Get(ctx, alice.ID, created.ID); err != nil {
		t.Fatalf("expected todo to survive, got %v", err)
	}
}

func TestTodoService_List_FiltersByCompletedAndOwner(t *testing.T) {
	todos, alice, bob := newTestTodoService(t)
	ctx := context.Background()

	done := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Done"})
	if _, err := todos.Toggle(ctx, alice.ID, done.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Pending"})
	mustCreate(t, todos, bob.ID, service.CreateTodoInput{Title: "Bob's"})

	completed := true
	list, err := todos.List(ctx, alice.ID, domain.TodoFilter{Completed: &completed})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Done" {
		t.Fatalf("expected exactly Alice's completed todo, got %+v", list)
	}

	notCompleted := false
	list, err = todos.List(ctx, alice.ID, domain.TodoFilter{Completed: &notCompleted})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Pending" {
		t.Fatalf("expected exactly Alice's pending todo, got %+v", list)
	}
}

func TestTodoService_List_CombinedFilters(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	highDone := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "High done", Priority: domain.PriorityHigh})
	if _, err := todos.Toggle(ctx, alice.ID, highDone.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "High pending", Priority: domain.PriorityHigh})
	lowDone := mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "Low done", Priority: domain.PriorityLow})
	if _, err := todos.Toggle(ctx, alice.ID, lowDone.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	completed := true
	high := domain.PriorityHigh
	list, err := todos.List(ctx, alice.ID, domain.TodoFilter{Completed: &completed, Priority: &high})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "High done" {
		t.Fatalf("expected the single completed high todo, got %+v", list)
	}
}

func TestTodoService_List_InvalidPriorityFilter(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	bad := domain.Priority("sky-high")
	_, err := todos.List(context.Background(), alice.ID, domain.TodoFilter{Priority: &bad})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTodoService_List_EmptyResultIsNotError(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	list, err := todos.List(context.Background(), alice.ID, domain.TodoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d items", len(list))
	}
}

func TestTodoService_List_SortNewestDefault(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "first"})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "second"})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "third"})

	list, err := todos.List(context.Background(), alice.ID, domain.TodoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertTitles(t, list, []string{"third", "second", "first"})
}

func TestTodoService_List_SortOldest(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "first"})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "second"})

	list, err := todos.List(context.Background(), alice.ID, domain.TodoFilter{Sort: domain.SortOldest})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertTitles(t, list, []string{"first", "second"})
}

func TestTodoService_List_SortPriority(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "low", Priority: domain.PriorityLow})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "high-old", Priority: domain.PriorityHigh})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "medium", Priority: domain.PriorityMedium})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "high-new", Priority: domain.PriorityHigh})

	list, err := todos.List(context.Background(), alice.ID, domain.TodoFilter{Sort: domain.SortPriority})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// High before medium before low; within high, newer first.
	assertTitles(t, list, []string{"high-new", "high-old", "medium", "low"})
}

func TestTodoService_List_SortDueDateNullsLast(t *testing.T) {
	todos, alice, _ := newTestTodoService(t)

	soon := time.Now().Add(24 * time.Hour).UTC()
	later := time.Now().Add(72 * time.Hour).UTC()

	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "no-date"})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "later", DueDate: &later})
	mustCreate(t, todos, alice.ID, service.CreateTodoInput{Title: "soon", DueDate: &soon})

	list, err := todos.List(context.Background(), alice.ID, domain.TodoFilter{Sort: domain.SortDueDate})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertTitles(t, list, []string{"soon", "later", "no-date"})
}

func assertTitles(t *testing.T, todos []domain.Todo, want []string) {
	t.Helper()
	if len(todos) != len(want) {
		t.Fatalf("expected %d todos, got %d", len(want), len(todos))
	}
	for i, title := range want {
		if todos[i].Title != title {
			got := make([]string, len(todos))
			for j := range todos {
				got[j] = todos[j].Title
			}
			t.Fatalf("order mismatch at %d: want %v, got %v", i, want, got)
		}
	}
}
