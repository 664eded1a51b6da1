package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

const (
	DefaultTodoLimit = 100
	maxTodoTitle     = 255
)

// TodoService aplica las reglas de propiedad sobre las tareas. Una tarea de
// otro usuario se reporta como ErrTodoNotFound para no confirmar que existe.
type TodoService struct {
	logger *zap.Logger
	repo   repository.TodoRepository
	now    func() time.Time
}

func NewTodoService(logger *zap.Logger, repo repository.TodoRepository) *TodoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoService{
		logger: logger,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateTodoInput struct {
	Title       string
	Description string
	IsCompleted bool
	// UserID es opcional; si viene debe coincidir con el usuario autenticado.
	UserID string
}

// ownership es el resultado de comparar el usuario con el propietario.
type ownership int

const (
	ownershipUnchecked ownership = iota
	ownershipOwned
	ownershipForbidden
)

func checkOwnership(userID string, todo domain.Todo) ownership {
	if userID != "" && todo.UserID == userID {
		return ownershipOwned
	}
	return ownershipForbidden
}

func (s *TodoService) Create(ctx context.Context, owner domain.User, input CreateTodoInput) (domain.Todo, error) {
	if s == nil || s.repo == nil {
		return domain.Todo{}, errServiceNotConfigured
	}

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID != "" && input.UserID != owner.ID {
		return domain.Todo{}, ErrForbidden
	}
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return domain.Todo{}, err
	}

	now := s.now()
	todo := domain.Todo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		IsCompleted: input.IsCompleted,
		UserID:      owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// List pagina las tareas propias; limit fuera de (0, 100] se fuerza a 100.
func (s *TodoService) List(ctx context.Context, owner domain.User, skip, limit int) ([]domain.Todo, error) {
	if s == nil || s.repo == nil {
		return nil, errServiceNotConfigured
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > DefaultTodoLimit {
		limit = DefaultTodoLimit
	}
	return s.repo.ListByUserID(ctx, owner.ID, skip, limit)
}

func (s *TodoService) Get(ctx context.Context, owner domain.User, id string) (domain.Todo, error) {
	if s == nil || s.repo == nil {
		return domain.Todo{}, errServiceNotConfigured
	}
	return s.loadOwned(ctx, owner, id)
}

// Update aplica solo los campos presentes en el patch.
func (s *TodoService) Update(ctx context.Context, owner domain.User, id string, patch domain.TodoPatch) (domain.Todo, error) {
	if s == nil || s.repo == nil {
		return domain.Todo{}, errServiceNotConfigured
	}
	todo, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return domain.Todo{}, err
	}

	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return domain.Todo{}, err
		}
		todo.Title = title
	}
	if patch.Description != nil {
		todo.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsCompleted != nil {
		todo.IsCompleted = *patch.IsCompleted
	}
	todo.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, todo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, ErrTodoNotFound
		}
		return domain.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, owner domain.User, id string) error {
	if s == nil || s.repo == nil {
		return errServiceNotConfigured
	}
	todo, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, todo.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (s *TodoService) loadOwned(ctx context.Context, owner domain.User, id string) (domain.Todo, error) {
	todoID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return domain.Todo{}, ErrTodoNotFound
	}

	todo, err := s.repo.GetByID(ctx, todoID.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, ErrTodoNotFound
		}
		return domain.Todo{}, fmt.Errorf("get todo: %w", err)
	}

	if checkOwnership(owner.ID, todo) != ownershipOwned {
		s.logger.Debug("todo access denied",
			zap.String("todo_id", todo.ID),
			zap.String("user_id", owner.ID),
			zap.Error(ErrResourceNotOwned),
		)
		return domain.Todo{}, ErrTodoNotFound
	}
	return todo, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrTodoInvalidInput)
	}
	if len([]rune(title)) > maxTodoTitle {
		return "", fmt.Errorf("%w: title too long", ErrTodoInvalidInput)
	}
	return title, nil
}
