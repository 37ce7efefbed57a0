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

// ChargeServiceImpl implements ports.ChargeService: the debit side of the
// wallet ledger. A charge decrements the wallet and writes its immutable
// record in a single transaction under the wallet row lock.
type ChargeServiceImpl struct {
	chargeRepo ports.ChargeRepository
	walletRepo ports.WalletRepository
	teamRepo   ports.TeamMemberRepository
	phoneRepo  ports.PhoneNumberRepository
	transactor ports.DBTransactor
	cache      ports.BalanceCache
	auditSvc   ports.AuditService
	log        zerolog.Logger
}

// NewChargeService creates a new ChargeServiceImpl.
// cache and auditSvc may be nil.
func NewChargeService(
	chargeRepo ports.ChargeRepository,
	walletRepo ports.WalletRepository,
	teamRepo ports.TeamMemberRepository,
	phoneRepo ports.PhoneNumberRepository,
	transactor ports.DBTransactor,
	cache ports.BalanceCache,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *ChargeServiceImpl {
	return &ChargeServiceImpl{
		chargeRepo: chargeRepo,
		walletRepo: walletRepo,
		teamRepo:   teamRepo,
		phoneRepo:  phoneRepo,
		transactor: transactor,
		cache:      cache,
		auditSvc:   auditSvc,
		log:        log,
	}
}

// CreateCharge debits the account wallet and records the charge.
// Check order is fixed for deterministic error precedence:
// amount -> requester -> permission -> phone number -> wallet -> balance.
func (s *ChargeServiceImpl) CreateCharge(ctx context.Context, req ports.ChargeRequest) (*domain.Charge, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	requester, err := s.teamRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve requester: %w", err))
	}
	if requester == nil {
		return nil, apperror.ErrNotFound("requester")
	}

	if requester.AccountID != req.AccountID || !requester.PermissionLevel.CanCharge() {
		return nil, apperror.ErrPermissionDenied()
	}

	phone, err := s.phoneRepo.GetByID(ctx, req.PhoneNumberID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve phone number: %w", err))
	}
	if phone == nil {
		return nil, apperror.ErrNotFound("phone number")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByAccountIDForUpdate(ctx, dbTx, req.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	// Business rule: sufficient funds
	if wallet.Balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	newBalance := wallet.Balance - req.Amount

	charge := &domain.Charge{
		ID:            uuid.New(),
		PhoneNumberID: phone.ID,
		AccountID:     req.AccountID,
		RequesterID:   requester.ID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		CreatedAt:     time.Now().UTC(),
	}

	// Persist: debit + charge record share the transaction; a failed insert
	// rolls the debit back.
	if err := s.walletRepo.SetBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.chargeRepo.Create(ctx, dbTx, charge); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create charge: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit: drop the cached balance and notify the audit hook.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.AccountID); err != nil {
			s.log.Warn().Err(err).Str("account_id", req.AccountID.String()).Msg("failed to invalidate balance cache")
		}
	}
	if s.auditSvc != nil {
		s.auditSvc.Log(ctx, &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      &req.UserID,
			Action:       domain.AuditActionChargeCreated,
			ResourceType: "charge",
			ResourceID:   charge.ID.String(),
			Details:      fmt.Sprintf(`{"amount":%d,"account_id":%q}`, req.Amount, req.AccountID),
			CreatedAt:    time.Now().UTC(),
		})
	}

	s.log.Info().
		Str("charge_id", charge.ID.String()).
		Str("account_id", req.AccountID.String()).
		Int64("amount", req.Amount).
		Int64("new_balance", newBalance).
		Msg("charge created")

	return charge, nil
}
