package service

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
	getErr       error
	updates      int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	if _, ok := m.usersByID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.usersByID[user.ID] = user
	m.updates++
	return nil
}

type mockTodoRepo struct {
	todos     map[string]domain.Todo
	lastLimit int
	lastSkip  int
}

func newMockTodoRepo() *mockTodoRepo {
	return &mockTodoRepo{todos: make(map[string]domain.Todo)}
}

func (m *mockTodoRepo) Create(_ context.Context, todo domain.Todo) error {
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockTodoRepo) GetByID(_ context.Context, id string) (domain.Todo, error) {
	todo, ok := m.todos[id]
	if !ok {
		return domain.Todo{}, pgx.ErrNoRows
	}
	return todo, nil
}

func (m *mockTodoRepo) ListByUserID(_ context.Context, userID string, offset, limit int) ([]domain.Todo, error) {
	m.lastSkip = offset
	m.lastLimit = limit
	out := []domain.Todo{}
	for _, t := range m.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset >= len(out) {
		return []domain.Todo{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTodoRepo) Update(_ context.Context, todo domain.Todo) error {
	if _, ok := m.todos[todo.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockTodoRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.todos[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.todos, id)
	return nil
}
