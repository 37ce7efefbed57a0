package service

import (
	"context"
	"fmt"
	"time"

	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports"
	"provider-billing/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	auditSvc ports.AuditService
	log      zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl. auditSvc may be nil.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		auditSvc: auditSvc,
		log:      log,
	}
}

// Login verifies the credentials and issues a token. Unknown usernames and
// wrong passwords return the same error; callers learn nothing about which
// half failed.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("resolve user: %w", err))
	}
	if user == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	match, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !match {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(user.ID, user.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	if s.auditSvc != nil {
		s.auditSvc.Log(ctx, &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      &user.ID,
			Action:       domain.AuditActionLogin,
			ResourceType: "user",
			ResourceID:   user.ID.String(),
			CreatedAt:    time.Now().UTC(),
		})
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return token, expiresAt, nil
}

// CreateUser registers a new platform user with a hashed password.
func (s *AuthServiceImpl) CreateUser(ctx context.Context, username, password string, isStaff, isSuperuser bool) (*domain.User, error) {
	if username == "" {
		return nil, apperror.Validation("Username is required")
	}
	if len(password) < 8 {
		return nil, apperror.Validation("Password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("Username already taken")
	}

	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	return user, nil
}
