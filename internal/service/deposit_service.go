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

// DepositServiceImpl implements ports.DepositService: the credit side of the
// wallet ledger, driven by the OPEN -> APPROVED | REJECTED state machine.
type DepositServiceImpl struct {
	depositRepo ports.DepositRepository
	walletRepo  ports.WalletRepository
	accountRepo ports.AccountRepository
	teamRepo    ports.TeamMemberRepository
	userRepo    ports.UserRepository
	selector    ports.AssigneeSelector
	transactor  ports.DBTransactor
	cache       ports.BalanceCache
	auditSvc    ports.AuditService
	log         zerolog.Logger
}

// NewDepositService creates a new DepositServiceImpl.
// cache and auditSvc may be nil.
func NewDepositService(
	depositRepo ports.DepositRepository,
	walletRepo ports.WalletRepository,
	accountRepo ports.AccountRepository,
	teamRepo ports.TeamMemberRepository,
	userRepo ports.UserRepository,
	selector ports.AssigneeSelector,
	transactor ports.DBTransactor,
	cache ports.BalanceCache,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *DepositServiceImpl {
	return &DepositServiceImpl{
		depositRepo: depositRepo,
		walletRepo:  walletRepo,
		accountRepo: accountRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		selector:    selector,
		transactor:  transactor,
		cache:       cache,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// Create opens a new deposit request. Only an ADMIN team member of the
// target account may request a deposit. When no assignee is supplied, the
// selector picks one from the eligible reviewer pool.
func (s *DepositServiceImpl) Create(ctx context.Context, req ports.CreateDepositRequest) (*domain.DepositRequest, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	requester, err := s.teamRepo.GetByUserID(ctx, req.RequesterUserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve requester: %w", err))
	}
	if requester == nil {
		return nil, apperror.ErrNotFound("requester")
	}

	if requester.AccountID != req.AccountID || !requester.PermissionLevel.CanRequestDeposit() {
		return nil, apperror.ErrPermissionDenied()
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve account: %w", err))
	}
	if account == nil || !account.IsActive {
		return nil, apperror.ErrNotFound("account")
	}

	var assigneeID uuid.UUID
	if req.AssigneeID != nil {
		assignee, err := s.userRepo.GetByID(ctx, *req.AssigneeID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("resolve assignee: %w", err))
		}
		if assignee == nil {
			return nil, apperror.ErrNotFound("assignee")
		}
		assigneeID = assignee.ID
	} else {
		assignee, err := s.selector.SelectAssignee(ctx)
		if err != nil {
			return nil, err
		}
		assigneeID = assignee.ID
	}

	now := time.Now().UTC()
	deposit := &domain.DepositRequest{
		ID:          uuid.New(),
		RequesterID: requester.ID,
		AccountID:   req.AccountID,
		UserID:      requester.UserID,
		Amount:      req.Amount,
		AssigneeID:  assigneeID,
		Status:      domain.DepositStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.depositRepo.Create(ctx, deposit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create deposit request: %w", err))
	}

	s.audit(ctx, requester.UserID, domain.AuditActionDepositCreated, deposit)

	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("account_id", req.AccountID.String()).
		Str("assignee_id", assigneeID.String()).
		Int64("amount", req.Amount).
		Msg("deposit request created")

	return deposit, nil
}

// GetByID fetches a deposit request.
func (s *DepositServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get deposit request: %w", err))
	}
	if deposit == nil {
		return nil, apperror.ErrNotFound("deposit request")
	}
	return deposit, nil
}

// SetStatus transitions an open request into a terminal state. The
// finalization guard reads the persisted row under lock, so a stale
// in-memory copy can never bypass it. Approval credits the wallet in the
// same transaction as the status update; because terminal rows reject any
// further save, the credit fires at most once per request by construction.
func (s *DepositServiceImpl) SetStatus(ctx context.Context, actorUserID, id uuid.UUID, status domain.DepositStatus, comment *string) (*domain.DepositRequest, error) {
	if !status.IsTerminal() {
		return nil, apperror.ErrInvalidStatus(string(status))
	}

	actor, err := s.resolveActor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	deposit, err := s.depositRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock deposit request: %w", err))
	}
	if deposit == nil {
		return nil, apperror.ErrNotFound("deposit request")
	}
	if deposit.IsFinalized() {
		return nil, apperror.ErrFinalizedImmutable()
	}
	if !actor.CanReviewDeposit(deposit.AssigneeID) {
		return nil, apperror.ErrPermissionDenied()
	}

	if status == domain.DepositStatusApproved {
		wallet, err := s.walletRepo.GetByAccountIDForUpdate(ctx, dbTx, deposit.AccountID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return nil, apperror.ErrNotFound("wallet")
		}
		if err := s.walletRepo.SetBalance(ctx, dbTx, wallet.ID, wallet.Balance+deposit.Amount); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("credit wallet: %w", err))
		}
	}

	deposit.Status = status
	if comment != nil {
		deposit.Comment = comment
	}
	if err := s.depositRepo.Update(ctx, dbTx, deposit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update deposit request: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	action := domain.AuditActionDepositRejected
	if status == domain.DepositStatusApproved {
		action = domain.AuditActionDepositApproved
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, deposit.AccountID); err != nil {
				s.log.Warn().Err(err).Str("account_id", deposit.AccountID.String()).Msg("failed to invalidate balance cache")
			}
		}
	}
	s.audit(ctx, actorUserID, action, deposit)

	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("status", string(status)).
		Str("actor_id", actorUserID.String()).
		Msg("deposit request finalized")

	return deposit, nil
}

// Update changes the mutable fields of a request while it is still OPEN.
func (s *DepositServiceImpl) Update(ctx context.Context, actorUserID, id uuid.UUID, req ports.UpdateDepositRequest) (*domain.DepositRequest, error) {
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	actor, err := s.resolveActor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	deposit, err := s.depositRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock deposit request: %w", err))
	}
	if deposit == nil {
		return nil, apperror.ErrNotFound("deposit request")
	}
	if deposit.IsFinalized() {
		return nil, apperror.ErrFinalizedImmutable()
	}
	if !actor.CanReviewDeposit(deposit.AssigneeID) {
		return nil, apperror.ErrPermissionDenied()
	}

	if req.Amount != nil {
		deposit.Amount = *req.Amount
	}
	if req.Comment != nil {
		deposit.Comment = req.Comment
	}
	if err := s.depositRepo.Update(ctx, dbTx, deposit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update deposit request: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.audit(ctx, actorUserID, domain.AuditActionDepositUpdated, deposit)

	return deposit, nil
}

// Delete removes a request. Terminal requests are undeletable.
func (s *DepositServiceImpl) Delete(ctx context.Context, actorUserID, id uuid.UUID) error {
	actor, err := s.resolveActor(ctx, actorUserID)
	if err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	deposit, err := s.depositRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock deposit request: %w", err))
	}
	if deposit == nil {
		return apperror.ErrNotFound("deposit request")
	}
	if deposit.IsFinalized() {
		return apperror.ErrFinalizedImmutable()
	}
	if !actor.CanReviewDeposit(deposit.AssigneeID) {
		return apperror.ErrPermissionDenied()
	}

	if err := s.depositRepo.Delete(ctx, dbTx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete deposit request: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.audit(ctx, actorUserID, domain.AuditActionDepositDeleted, deposit)

	return nil
}

func (s *DepositServiceImpl) resolveActor(ctx context.Context, actorUserID uuid.UUID) (*domain.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorUserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve actor: %w", err))
	}
	if actor == nil {
		return nil, apperror.ErrNotFound("user")
	}
	return actor, nil
}

func (s *DepositServiceImpl) audit(ctx context.Context, actorUserID uuid.UUID, action domain.AuditAction, deposit *domain.DepositRequest) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &actorUserID,
		Action:       action,
		ResourceType: "deposit_request",
		ResourceID:   deposit.ID.String(),
		Details:      fmt.Sprintf(`{"amount":%d,"status":%q,"account_id":%q}`, deposit.Amount, deposit.Status, deposit.AccountID),
		CreatedAt:    time.Now().UTC(),
	})
}
