package service

import "errors"

// Errores del núcleo de autenticación. Los de token e inactividad se
// colapsan a ErrUnauthorized en IdentityResolver; ErrResourceNotOwned se
// colapsa a ErrTodoNotFound en TodoService.
var (
	ErrValidation         = errors.New("validation error")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenBadSignature  = errors.New("token signature invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenSecretMissing = errors.New("token secret not configured")

	ErrUserInactive = errors.New("user inactive")
	ErrUnauthorized = errors.New("unauthorized")

	ErrResourceNotOwned = errors.New("resource not owned")
	ErrTodoNotFound     = errors.New("todo not found")
	ErrForbidden        = errors.New("forbidden")
	ErrTodoInvalidInput = errors.New("todo invalid input")

	errServiceNotConfigured = errors.New("service not configured")
)
