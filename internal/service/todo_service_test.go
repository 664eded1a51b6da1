package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-api/internal/domain"
)

func newTestTodoService() (*TodoService, *mockTodoRepo) {
	repo := newMockTodoRepo()
	svc := NewTodoService(zap.NewNop(), repo)
	tick := testNow
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc, repo
}

func testUser() domain.User {
	return domain.User{ID: uuid.NewString(), Email: "a@x.com", IsActive: true}
}

func TestTodoServiceCreate(t *testing.T) {
	svc, repo := newTestTodoService()
	owner := testUser()

	todo, err := svc.Create(context.Background(), owner, CreateTodoInput{Title: "  buy milk  ", Description: "2L"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.Title != "buy milk" || todo.UserID != owner.ID || todo.IsCompleted {
		t.Fatalf("unexpected todo: %+v", todo)
	}
	if _, ok := repo.todos[todo.ID]; !ok {
		t.Fatalf("expected todo persisted")
	}

	same, err := svc.Create(context.Background(), owner, CreateTodoInput{Title: "x", UserID: owner.ID})
	if err != nil || same.UserID != owner.ID {
		t.Fatalf("expected matching user_id to be accepted, got %+v, %v", same, err)
	}
}

func TestTodoServiceCreate_MismatchedOwnerIsForbidden(t *testing.T) {
	svc, repo := newTestTodoService()

	_, err := svc.Create(context.Background(), testUser(), CreateTodoInput{Title: "x", UserID: uuid.NewString()})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.todos) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestTodoServiceCreate_InvalidTitle(t *testing.T) {
	svc, _ := newTestTodoService()
	owner := testUser()

	for _, title := range []string{"", "   ", strings.Repeat("t", 256)} {
		if _, err := svc.Create(context.Background(), owner, CreateTodoInput{Title: title}); !errors.Is(err, ErrTodoInvalidInput) {
			t.Fatalf("title %q: expected ErrTodoInvalidInput, got %v", title, err)
		}
	}
	if _, err := svc.Create(context.Background(), owner, CreateTodoInput{Title: strings.Repeat("ñ", 255)}); err != nil {
		t.Fatalf("expected 255 rune title to be accepted, got %v", err)
	}
}

func TestTodoServiceList_OnlyOwnTodos(t *testing.T) {
	svc, repo := newTestTodoService()
	alice, bob := testUser(), testUser()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), alice, CreateTodoInput{Title: "a"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), bob, CreateTodoInput{Title: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	todos, err := svc.List(context.Background(), alice, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(todos))
	}
	for _, todo := range todos {
		if todo.UserID != alice.ID {
			t.Fatalf("listed foreign todo: %+v", todo)
		}
	}

	page, err := svc.List(context.Background(), alice, 1, 1)
	if err != nil || len(page) != 1 || page[0].ID != todos[1].ID {
		t.Fatalf("expected second todo on page, got %+v, %v", page, err)
	}
	if repo.lastSkip != 1 || repo.lastLimit != 1 {
		t.Fatalf("unexpected pagination passed to store: %d/%d", repo.lastSkip, repo.lastLimit)
	}
}

func TestTodoServiceList_ClampsPagination(t *testing.T) {
	svc, repo := newTestTodoService()
	owner := testUser()

	cases := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{skip: -5, limit: 0, wantSkip: 0, wantLimit: DefaultTodoLimit},
		{skip: 0, limit: -1, wantSkip: 0, wantLimit: DefaultTodoLimit},
		{skip: 2, limit: 1000, wantSkip: 2, wantLimit: DefaultTodoLimit},
		{skip: 3, limit: 50, wantSkip: 3, wantLimit: 50},
	}
	for _, c := range cases {
		if _, err := svc.List(context.Background(), owner, c.skip, c.limit); err != nil {
			t.Fatalf("list: %v", err)
		}
		if repo.lastSkip != c.wantSkip || repo.lastLimit != c.wantLimit {
			t.Fatalf("skip=%d limit=%d: expected %d/%d, got %d/%d",
				c.skip, c.limit, c.wantSkip, c.wantLimit, repo.lastSkip, repo.lastLimit)
		}
	}
}

func TestTodoServiceForeignTodoLooksMissing(t *testing.T) {
	svc, repo := newTestTodoService()
	alice, bob := testUser(), testUser()

	todo, err := svc.Create(context.Background(), bob, CreateTodoInput{Title: "bob's"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, getErr := svc.Get(context.Background(), alice, todo.ID)
	_, missingErr := svc.Get(context.Background(), alice, uuid.NewString())
	if !errors.Is(getErr, ErrTodoNotFound) || !errors.Is(missingErr, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v and %v", getErr, missingErr)
	}
	if errors.Is(getErr, ErrForbidden) {
		t.Fatalf("foreign todo must not be reported as forbidden")
	}

	title := "hijacked"
	if _, err := svc.Update(context.Background(), alice, todo.ID, domain.TodoPatch{Title: &title}); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), alice, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on delete, got %v", err)
	}
	if stored := repo.todos[todo.ID]; stored.Title != "bob's" {
		t.Fatalf("foreign todo was modified: %+v", stored)
	}
}

func TestTodoServiceGet_InvalidID(t *testing.T) {
	svc, _ := newTestTodoService()
	if _, err := svc.Get(context.Background(), testUser(), "not-a-uuid"); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoServiceUpdate_Partial(t *testing.T) {
	svc, _ := newTestTodoService()
	owner := testUser()
	todo, err := svc.Create(context.Background(), owner, CreateTodoInput{Title: "title", Description: "desc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := true
	updated, err := svc.Update(context.Background(), owner, todo.ID, domain.TodoPatch{IsCompleted: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsCompleted || updated.Title != "title" || updated.Description != "desc" {
		t.Fatalf("unexpected partial update result: %+v", updated)
	}
	if !updated.UpdatedAt.After(todo.UpdatedAt) || !updated.CreatedAt.Equal(todo.CreatedAt) {
		t.Fatalf("expected only updated_at to move")
	}

	empty := " "
	if _, err := svc.Update(context.Background(), owner, todo.ID, domain.TodoPatch{Title: &empty}); !errors.Is(err, ErrTodoInvalidInput) {
		t.Fatalf("expected ErrTodoInvalidInput, got %v", err)
	}
}

func TestTodoServiceDelete(t *testing.T) {
	svc, repo := newTestTodoService()
	owner := testUser()
	todo, err := svc.Create(context.Background(), owner, CreateTodoInput{Title: "title"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), owner, todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.todos) != 0 {
		t.Fatalf("expected todo removed")
	}
	if err := svc.Delete(context.Background(), owner, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}
