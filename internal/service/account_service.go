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

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	walletRepo  ports.WalletRepository
	teamRepo    ports.TeamMemberRepository
	userRepo    ports.UserRepository
	phoneRepo   ports.PhoneNumberRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	walletRepo ports.WalletRepository,
	teamRepo ports.TeamMemberRepository,
	userRepo ports.UserRepository,
	phoneRepo ports.PhoneNumberRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		walletRepo:  walletRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		phoneRepo:   phoneRepo,
		transactor:  transactor,
		log:         log,
	}
}

// CreateAccount creates an account together with its zero-balance wallet.
// Both rows share one transaction; an account without a wallet never exists.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, name string) (*domain.Account, error) {
	if name == "" {
		return nil, apperror.Validation("Account name is required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accountRepo.Create(ctx, dbTx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	wallet := &domain.Wallet{
		ID:        uuid.New(),
		AccountID: account.ID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("name", name).
		Msg("account created")

	return account, nil
}

// AddTeamMember attaches a user to an account with the given permission level.
func (s *AccountServiceImpl) AddTeamMember(ctx context.Context, accountID, userID uuid.UUID, level domain.PermissionLevel) (*domain.TeamMember, error) {
	switch level {
	case domain.PermissionAdmin, domain.PermissionStaff, domain.PermissionUser:
	default:
		return nil, apperror.Validation(fmt.Sprintf("Invalid permission level: %s", level))
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	now := time.Now().UTC()
	member := &domain.TeamMember{
		ID:              uuid.New(),
		AccountID:       accountID,
		UserID:          userID,
		PermissionLevel: level,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.teamRepo.Create(ctx, member); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create team member: %w", err))
	}

	return member, nil
}

// RegisterPhoneNumber adds a chargeable phone number to the platform.
func (s *AccountServiceImpl) RegisterPhoneNumber(ctx context.Context, number string) (*domain.PhoneNumber, error) {
	if number == "" {
		return nil, apperror.Validation("Phone number is required")
	}

	now := time.Now().UTC()
	phone := &domain.PhoneNumber{
		ID:        uuid.New(),
		Number:    number,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.phoneRepo.Create(ctx, phone); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create phone number: %w", err))
	}

	return phone, nil
}
