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

// IdentityResolver convierte un bearer token en un usuario vivo y activo.
// Cualquier motivo de rechazo se reporta como ErrUnauthorized.
type IdentityResolver struct {
	logger *zap.Logger
	tokens *JWTService
	users  repository.UserRepository
	now    func() time.Time
}

func NewIdentityResolver(logger *zap.Logger, tokens *JWTService, users repository.UserRepository) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{
		logger: logger,
		tokens: tokens,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Resolve verifica firma, luego expiracion y por ultimo busca el sujeto.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (domain.User, error) {
	if r.tokens == nil || r.users == nil {
		return domain.User{}, errServiceNotConfigured
	}
	if strings.TrimSpace(token) == "" {
		return domain.User{}, ErrUnauthorized
	}

	claims, err := r.tokens.Verify(token, r.now())
	if err != nil {
		return domain.User{}, r.reject("token rejected", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.User{}, r.reject("token subject is not a user id", ErrTokenMalformed)
	}

	user, err := r.users.GetByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, r.reject("token subject not found", err)
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return domain.User{}, r.reject("user inactive", ErrUserInactive)
	}
	return user, nil
}

func (r *IdentityResolver) reject(msg string, cause error) error {
	r.logger.Debug(msg, zap.Error(cause))
	return ErrUnauthorized
}
