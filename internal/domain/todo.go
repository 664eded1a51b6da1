package domain

import "time"

// Todo es una tarea que pertenece a un unico usuario.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsCompleted bool      `json:"is_completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoPatch lleva los campos opcionales de una actualizacion parcial.
type TodoPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}
