package service

import (
	"context"
	"testing"
	"time"

	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports/mocks"
	"provider-billing/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(userRepo, hashSvc, tokenSvc, nil, zerolog.Nop())

	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "$argon2id$..."}
	expiry := time.Now().Add(time.Hour)

	userRepo.EXPECT().GetByUsername(ctx, "alice").Return(user, nil)
	hashSvc.EXPECT().Verify("s3cretpass", user.PasswordHash).Return(true, nil)
	tokenSvc.EXPECT().Generate(user.ID, "alice").Return("token-123", expiry, nil)

	token, expiresAt, err := svc.Login(ctx, "alice", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.Equal(t, expiry, expiresAt)
}

// Unknown usernames and wrong passwords produce the identical error.
func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(userRepo, hashSvc, tokenSvc, nil, zerolog.Nop())

	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Username: "bob", PasswordHash: "$argon2id$..."}

	userRepo.EXPECT().GetByUsername(ctx, "nobody").Return(nil, nil)
	_, _, errUnknown := svc.Login(ctx, "nobody", "whatever1")

	userRepo.EXPECT().GetByUsername(ctx, "bob").Return(user, nil)
	hashSvc.EXPECT().Verify("wrongpass", user.PasswordHash).Return(false, nil)
	_, _, errWrongPass := svc.Login(ctx, "bob", "wrongpass")

	assert.True(t, apperror.Is(errUnknown, apperror.CodeInvalidCredentials))
	assert.True(t, apperror.Is(errWrongPass, apperror.CodeInvalidCredentials))
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(userRepo, hashSvc, tokenSvc, nil, zerolog.Nop())

	ctx := context.Background()
	userRepo.EXPECT().GetByUsername(ctx, "carol").Return(nil, nil)
	hashSvc.EXPECT().Hash("longenoughpass").Return("$argon2id$hashed", nil)
	userRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := svc.CreateUser(ctx, "carol", "longenoughpass", true, false)
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.Equal(t, "$argon2id$hashed", user.PasswordHash)
	assert.True(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
}

func TestAuthService_CreateUser_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(userRepo, hashSvc, tokenSvc, nil, zerolog.Nop())

	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "longenoughpass", false, false)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = svc.CreateUser(ctx, "dave", "short", false, false)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestAuthService_CreateUser_DuplicateUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(userRepo, hashSvc, tokenSvc, nil, zerolog.Nop())

	ctx := context.Background()
	userRepo.EXPECT().GetByUsername(ctx, "taken").Return(&domain.User{ID: uuid.New(), Username: "taken"}, nil)

	_, err := svc.CreateUser(ctx, "taken", "longenoughpass", false, false)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
