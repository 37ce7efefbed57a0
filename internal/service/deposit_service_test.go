package service

import (
	"context"
	"testing"

	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports"
	"provider-billing/internal/core/ports/mocks"
	"provider-billing/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type depositFixture struct {
	depositRepo *mocks.MockDepositRepository
	walletRepo  *mocks.MockWalletRepository
	accountRepo *mocks.MockAccountRepository
	teamRepo    *mocks.MockTeamMemberRepository
	userRepo    *mocks.MockUserRepository
	selector    *mocks.MockAssigneeSelector
	transactor  *mocks.MockDBTransactor
	tx          *mocks.MockTx
	svc         *DepositServiceImpl
}

func newDepositFixture(t *testing.T) *depositFixture {
	ctrl := gomock.NewController(t)
	f := &depositFixture{
		depositRepo: mocks.NewMockDepositRepository(ctrl),
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		teamRepo:    mocks.NewMockTeamMemberRepository(ctrl),
		userRepo:    mocks.NewMockUserRepository(ctrl),
		selector:    mocks.NewMockAssigneeSelector(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		tx:          mocks.NewMockTx(ctrl),
	}
	f.svc = NewDepositService(
		f.depositRepo, f.walletRepo, f.accountRepo, f.teamRepo, f.userRepo,
		f.selector, f.transactor, nil, nil, zerolog.Nop(),
	)
	return f
}

func (f *depositFixture) expectTx(commit bool) {
	f.transactor.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	if commit {
		f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	}
	f.tx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed).AnyTimes()
}

func adminMember(accountID uuid.UUID) *domain.TeamMember {
	return &domain.TeamMember{
		ID:              uuid.New(),
		AccountID:       accountID,
		UserID:          uuid.New(),
		PermissionLevel: domain.PermissionAdmin,
	}
}

func openDeposit(accountID, assigneeID uuid.UUID, amount int64) *domain.DepositRequest {
	return &domain.DepositRequest{
		ID:         uuid.New(),
		AccountID:  accountID,
		Amount:     amount,
		AssigneeID: assigneeID,
		Status:     domain.DepositStatusOpen,
	}
}

func TestDepositService_Create_SelectorPicksAssignee(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := adminMember(accountID)
	reviewer := &domain.User{ID: uuid.New(), IsStaff: true}

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.accountRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.Account{ID: accountID, IsActive: true}, nil)
	f.selector.EXPECT().SelectAssignee(ctx).Return(reviewer, nil)
	f.depositRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	deposit, err := f.svc.Create(ctx, ports.CreateDepositRequest{
		RequesterUserID: member.UserID,
		AccountID:       accountID,
		Amount:          100000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusOpen, deposit.Status)
	assert.Equal(t, reviewer.ID, deposit.AssigneeID)
	assert.Equal(t, member.ID, deposit.RequesterID)
}

func TestDepositService_Create_ExplicitAssignee(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := adminMember(accountID)
	assigneeID := uuid.New()

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.accountRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.Account{ID: accountID, IsActive: true}, nil)
	f.userRepo.EXPECT().GetByID(ctx, assigneeID).Return(&domain.User{ID: assigneeID, IsStaff: true}, nil)
	f.depositRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	deposit, err := f.svc.Create(ctx, ports.CreateDepositRequest{
		RequesterUserID: member.UserID,
		AccountID:       accountID,
		Amount:          100000,
		AssigneeID:      &assigneeID,
	})
	require.NoError(t, err)
	assert.Equal(t, assigneeID, deposit.AssigneeID)
}

func TestDepositService_Create_InvalidAmount(t *testing.T) {
	f := newDepositFixture(t)

	_, err := f.svc.Create(context.Background(), ports.CreateDepositRequest{
		RequesterUserID: uuid.New(),
		AccountID:       uuid.New(),
		Amount:          0,
	})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount))
}

func TestDepositService_Create_NonAdminDenied(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()

	for _, level := range []domain.PermissionLevel{domain.PermissionStaff, domain.PermissionUser} {
		member := adminMember(accountID)
		member.PermissionLevel = level
		f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)

		_, err := f.svc.Create(ctx, ports.CreateDepositRequest{
			RequesterUserID: member.UserID,
			AccountID:       accountID,
			Amount:          100000,
		})
		assert.True(t, apperror.Is(err, apperror.CodePermissionDenied), "level %s", level)
	}
}

func TestDepositService_Create_SelectorFailurePropagates(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := adminMember(accountID)

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.accountRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.Account{ID: accountID, IsActive: true}, nil)
	f.selector.EXPECT().SelectAssignee(ctx).Return(nil, apperror.ErrNoEligibleAssignee())

	_, err := f.svc.Create(ctx, ports.CreateDepositRequest{
		RequesterUserID: member.UserID,
		AccountID:       accountID,
		Amount:          100000,
	})
	assert.True(t, apperror.Is(err, apperror.CodeNoEligibleAssignee))
}

func TestDepositService_Approve_CreditsWalletInSameTx(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)
	wallet := &domain.Wallet{ID: uuid.New(), AccountID: accountID, Balance: 25000}

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(true)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)
	f.walletRepo.EXPECT().GetByAccountIDForUpdate(ctx, f.tx, accountID).Return(wallet, nil)
	f.walletRepo.EXPECT().SetBalance(ctx, f.tx, wallet.ID, int64(125000)).Return(nil)
	f.depositRepo.EXPECT().Update(ctx, f.tx, gomock.Any()).Return(nil)

	updated, err := f.svc.SetStatus(ctx, assignee.ID, deposit.ID, domain.DepositStatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusApproved, updated.Status)
}

func TestDepositService_Reject_NoWalletTouch(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)
	comment := "invoice mismatch"

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(true)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)
	// No wallet expectations: rejection never reads or writes the wallet.
	f.depositRepo.EXPECT().Update(ctx, f.tx, gomock.Any()).Return(nil)

	updated, err := f.svc.SetStatus(ctx, assignee.ID, deposit.ID, domain.DepositStatusRejected, &comment)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusRejected, updated.Status)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, comment, *updated.Comment)
}

// A request already in a terminal state rejects any further transition, and
// the wallet is never touched. The persisted row decides, not the caller's
// view of it.
func TestDepositService_Approve_FinalizedIsImmutable(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)
	deposit.Status = domain.DepositStatusApproved

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(false)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)

	_, err := f.svc.SetStatus(ctx, assignee.ID, deposit.ID, domain.DepositStatusApproved, nil)
	assert.True(t, apperror.Is(err, apperror.CodeFinalizedImmutable))
}

func TestDepositService_SetStatus_OpenIsNotATarget(t *testing.T) {
	f := newDepositFixture(t)

	_, err := f.svc.SetStatus(context.Background(), uuid.New(), uuid.New(), domain.DepositStatusOpen, nil)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidStatus))
}

// The assignee and any superuser may finalize; other staff may not. This is
// the intended rule: assignment is meaningful, and superusers retain an
// override.
func TestDepositService_SetStatus_ActorRules(t *testing.T) {
	accountID := uuid.New()
	assigneeID := uuid.New()

	cases := []struct {
		name    string
		actor   *domain.User
		allowed bool
	}{
		{"assignee", &domain.User{ID: assigneeID, IsStaff: true}, true},
		{"superuser", &domain.User{ID: uuid.New(), IsStaff: true, IsSuperuser: true}, true},
		{"unrelated staff", &domain.User{ID: uuid.New(), IsStaff: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDepositFixture(t)
			ctx := context.Background()
			deposit := openDeposit(accountID, assigneeID, 5000)

			f.userRepo.EXPECT().GetByID(ctx, tc.actor.ID).Return(tc.actor, nil)
			f.expectTx(tc.allowed)
			f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)
			if tc.allowed {
				f.depositRepo.EXPECT().Update(ctx, f.tx, gomock.Any()).Return(nil)
			}

			_, err := f.svc.SetStatus(ctx, tc.actor.ID, deposit.ID, domain.DepositStatusRejected, nil)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.Is(err, apperror.CodePermissionDenied))
			}
		})
	}
}

func TestDepositService_Update_OpenOnly(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)
	deposit.Status = domain.DepositStatusRejected

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(false)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)

	newAmount := int64(200000)
	_, err := f.svc.Update(ctx, assignee.ID, deposit.ID, ports.UpdateDepositRequest{Amount: &newAmount})
	assert.True(t, apperror.Is(err, apperror.CodeFinalizedImmutable))
}

func TestDepositService_Update_ChangesAmount(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(true)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)
	f.depositRepo.EXPECT().Update(ctx, f.tx, gomock.Any()).Return(nil)

	newAmount := int64(250000)
	updated, err := f.svc.Update(ctx, assignee.ID, deposit.ID, ports.UpdateDepositRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, newAmount, updated.Amount)
	assert.Equal(t, domain.DepositStatusOpen, updated.Status)
}

func TestDepositService_Delete_FinalizedIsUndeletable(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)
	deposit.Status = domain.DepositStatusApproved

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(false)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)

	err := f.svc.Delete(ctx, assignee.ID, deposit.ID)
	assert.True(t, apperror.Is(err, apperror.CodeFinalizedImmutable))
}

func TestDepositService_Delete_Open(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	assignee := &domain.User{ID: uuid.New(), IsStaff: true}
	deposit := openDeposit(accountID, assignee.ID, 100000)

	f.userRepo.EXPECT().GetByID(ctx, assignee.ID).Return(assignee, nil)
	f.expectTx(true)
	f.depositRepo.EXPECT().GetByIDForUpdate(ctx, f.tx, deposit.ID).Return(deposit, nil)
	f.depositRepo.EXPECT().Delete(ctx, f.tx, deposit.ID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, assignee.ID, deposit.ID))
}

func TestDepositService_GetByID_NotFound(t *testing.T) {
	f := newDepositFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.depositRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := f.svc.GetByID(ctx, id)
	assert.True(t, apperror.IsNotFound(err, "deposit request"))
}
