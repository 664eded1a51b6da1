package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo-api/internal/domain"
)

// TodoRepository define la persistencia de tareas. La verificación de
// propietario se hace en la capa de servicio.
type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo) error
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	ListByUserID(ctx context.Context, userID string, offset, limit int) ([]domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) error
	Delete(ctx context.Context, id string) error
}

type PgTodoRepository struct {
	pool *pgxpool.Pool
}

func NewPgTodoRepository(pool *pgxpool.Pool) *PgTodoRepository {
	return &PgTodoRepository{pool: pool}
}

func (r *PgTodoRepository) Create(ctx context.Context, todo domain.Todo) error {
	const query = `
		INSERT INTO todos (id, title, description, is_completed, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.UserID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	return err
}

func (r *PgTodoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	const query = `
		SELECT id, title, description, is_completed, user_id, created_at, updated_at
		FROM todos
		WHERE id = $1
	`
	var t domain.Todo
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.IsCompleted,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return domain.Todo{}, err
	}
	return t, nil
}

func (r *PgTodoRepository) ListByUserID(ctx context.Context, userID string, offset, limit int) ([]domain.Todo, error) {
	const query = `
		SELECT id, title, description, is_completed, user_id, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at ASC
		OFFSET $2
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		var t domain.Todo
		err = rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.IsCompleted,
			&t.UserID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *PgTodoRepository) Update(ctx context.Context, todo domain.Todo) error {
	const query = `
		UPDATE todos
		SET title = $2, description = $3, is_completed = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgTodoRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
