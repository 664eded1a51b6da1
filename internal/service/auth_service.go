package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

// AuthService registra usuarios, autentica credenciales y emite sesiones.
type AuthService struct {
	logger    *zap.Logger
	users     repository.UserRepository
	hasher    *PasswordHasher
	tokens    *JWTService
	accessTTL time.Duration
	validate  *validator.Validate
	now       func() time.Time
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher, tokens *JWTService, accessTTL time.Duration) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &AuthService{
		logger:    logger,
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		accessTTL: accessTTL,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Email     string `validate:"required,email,max=254"`
	Password  string `validate:"required"`
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
}

// Register crea un usuario activo. El indice unico de email es la autoridad
// final: una violacion en el insert tambien se reporta como ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil || s.hasher == nil {
		return domain.User{}, errServiceNotConfigured
	}

	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := s.validate.Struct(input); err != nil {
		return domain.User{}, validationError(err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate devuelve ErrInvalidCredentials tanto si el email no existe
// como si la contraseña no coincide; en ambos casos se ejecuta bcrypt.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	if s.users == nil || s.hasher == nil {
		return domain.User{}, errServiceNotConfigured
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.hasher.CompareDummy(password)
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.hasher.CompareDummy(password)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, &user, password)
	}
	return user, nil
}

// IssueSession emite un access token con la ventana fija de validez.
func (s *AuthService) IssueSession(user domain.User) (domain.Session, error) {
	if s.tokens == nil {
		return domain.Session{}, ErrTokenSecretMissing
	}
	token, err := s.tokens.Issue(user.ID, user.Email, s.now(), s.accessTTL)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

// rehash actualiza el hash cuando cambia BCRYPT_COST. Un fallo no invalida el login.
func (s *AuthService) rehash(ctx context.Context, user *domain.User, password string) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	updated := *user
	updated.PasswordHash = newHash
	updated.UpdatedAt = s.now()
	if err := s.users.Update(ctx, updated); err != nil {
		s.logger.Warn("persist rehashed password failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	*user = updated
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s failed on %s", ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
