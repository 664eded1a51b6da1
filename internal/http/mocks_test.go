package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
	"todo-api/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	getErr       error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
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
	return nil
}

type mockTodoRepo struct {
	todos map[string]domain.Todo
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

type testAPI struct {
	router *gin.Engine
	users  *mockUserRepo
	todos  *mockTodoRepo
	tokens *service.JWTService
}

func newTestAPI(t *testing.T, ping PingFunc) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := service.NewJWTService("test-secret", "HS256")
	if err != nil {
		t.Fatalf("new jwt service: %v", err)
	}
	users := newMockUserRepo()
	todos := newMockTodoRepo()
	logger := zap.NewNop()

	authSvc := service.NewAuthService(logger, users, service.NewPasswordHasher(bcrypt.MinCost), tokens, 30*time.Minute)
	resolver := service.NewIdentityResolver(logger, tokens, users)
	todoSvc := service.NewTodoService(logger, todos)

	router := NewRouter(
		logger,
		[]string{"*"},
		resolver,
		NewHealthHandler(logger, ping),
		NewUserHandler(logger, authSvc),
		NewTodoHandler(logger, todoSvc),
	)
	return &testAPI{router: router, users: users, todos: todos, tokens: tokens}
}

func performRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

// registerAndLogin crea un usuario y devuelve su id y access token.
func (a *testAPI) registerAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()
	rec := performRequest(a.router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, rec.Code, rec.Body.String())
	}
	userID, _ := decodeBody(t, rec)["id"].(string)

	rec = performRequest(a.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["access_token"].(string)
	if userID == "" || token == "" {
		t.Fatalf("expected user id and token for %s", email)
	}
	return userID, token
}
