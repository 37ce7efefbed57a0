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

type chargeFixture struct {
	chargeRepo *mocks.MockChargeRepository
	walletRepo *mocks.MockWalletRepository
	teamRepo   *mocks.MockTeamMemberRepository
	phoneRepo  *mocks.MockPhoneNumberRepository
	transactor *mocks.MockDBTransactor
	tx         *mocks.MockTx
	svc        *ChargeServiceImpl
}

func newChargeFixture(t *testing.T) *chargeFixture {
	ctrl := gomock.NewController(t)
	f := &chargeFixture{
		chargeRepo: mocks.NewMockChargeRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		teamRepo:   mocks.NewMockTeamMemberRepository(ctrl),
		phoneRepo:  mocks.NewMockPhoneNumberRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		tx:         mocks.NewMockTx(ctrl),
	}
	f.svc = NewChargeService(
		f.chargeRepo, f.walletRepo, f.teamRepo, f.phoneRepo,
		f.transactor, nil, nil, zerolog.Nop(),
	)
	return f
}

func (f *chargeFixture) expectTx(commit bool) {
	f.transactor.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	if commit {
		f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	}
	f.tx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed).AnyTimes()
}

func staffMember(accountID uuid.UUID) *domain.TeamMember {
	return &domain.TeamMember{
		ID:              uuid.New(),
		AccountID:       accountID,
		UserID:          uuid.New(),
		PermissionLevel: domain.PermissionStaff,
	}
}

func TestChargeService_Success(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	phoneID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), AccountID: accountID, Balance: 50000}

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.phoneRepo.EXPECT().GetByID(ctx, phoneID).Return(&domain.PhoneNumber{ID: phoneID}, nil)
	f.expectTx(true)
	f.walletRepo.EXPECT().GetByAccountIDForUpdate(ctx, f.tx, accountID).Return(wallet, nil)
	f.walletRepo.EXPECT().SetBalance(ctx, f.tx, wallet.ID, int64(40000)).Return(nil)
	f.chargeRepo.EXPECT().Create(ctx, f.tx, gomock.Any()).Return(nil)

	charge, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), charge.Amount)
	assert.Equal(t, accountID, charge.AccountID)
	assert.Equal(t, member.ID, charge.RequesterID)
}

func TestChargeService_InvalidAmount(t *testing.T) {
	f := newChargeFixture(t)

	for _, amount := range []int64{0, -1, -10000} {
		_, err := f.svc.CreateCharge(context.Background(), ports.ChargeRequest{
			PhoneNumberID: uuid.New(),
			AccountID:     uuid.New(),
			UserID:        uuid.New(),
			Amount:        amount,
		})
		assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount), "amount %d", amount)
	}
}

func TestChargeService_RequesterNotFound(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	f.teamRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: uuid.New(),
		AccountID:     uuid.New(),
		UserID:        userID,
		Amount:        10000,
	})
	assert.True(t, apperror.IsNotFound(err, "requester"))
}

// A nonexistent requester must win over insufficient funds: the wallet is
// never read, so the balance cannot influence the outcome.
func TestChargeService_RequesterNotFoundBeatsInsufficientFunds(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	f.teamRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	// No wallet, phone, or transactor expectations: any touch fails the test.

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: uuid.New(),
		AccountID:     uuid.New(),
		UserID:        userID,
		Amount:        1 << 40,
	})
	assert.True(t, apperror.IsNotFound(err, "requester"))
}

func TestChargeService_PermissionDenied(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	member.PermissionLevel = domain.PermissionUser

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: uuid.New(),
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	assert.True(t, apperror.Is(err, apperror.CodePermissionDenied))
}

func TestChargeService_ForeignAccountDenied(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	member := staffMember(uuid.New())

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)

	// Membership in one account grants nothing on another.
	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: uuid.New(),
		AccountID:     uuid.New(),
		UserID:        member.UserID,
		Amount:        10000,
	})
	assert.True(t, apperror.Is(err, apperror.CodePermissionDenied))
}

func TestChargeService_PhoneNumberNotFound(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	phoneID := uuid.New()

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.phoneRepo.EXPECT().GetByID(ctx, phoneID).Return(nil, nil)

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	assert.True(t, apperror.IsNotFound(err, "phone number"))
}

func TestChargeService_WalletNotFound(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	phoneID := uuid.New()

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.phoneRepo.EXPECT().GetByID(ctx, phoneID).Return(&domain.PhoneNumber{ID: phoneID}, nil)
	f.expectTx(false)
	f.walletRepo.EXPECT().GetByAccountIDForUpdate(ctx, f.tx, accountID).Return(nil, nil)

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	assert.True(t, apperror.IsNotFound(err, "wallet"))
}

func TestChargeService_InsufficientFunds(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	phoneID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), AccountID: accountID, Balance: 5000}

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.phoneRepo.EXPECT().GetByID(ctx, phoneID).Return(&domain.PhoneNumber{ID: phoneID}, nil)
	f.expectTx(false)
	f.walletRepo.EXPECT().GetByAccountIDForUpdate(ctx, f.tx, accountID).Return(wallet, nil)
	// SetBalance must not be called: the debit never happens.

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientFunds))
}

// An exact-balance charge drains the wallet to zero and succeeds.
func TestChargeService_ExactBalance(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	phoneID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), AccountID: accountID, Balance: 10000}

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.phoneRepo.EXPECT().GetByID(ctx, phoneID).Return(&domain.PhoneNumber{ID: phoneID}, nil)
	f.expectTx(true)
	f.walletRepo.EXPECT().GetByAccountIDForUpdate(ctx, f.tx, accountID).Return(wallet, nil)
	f.walletRepo.EXPECT().SetBalance(ctx, f.tx, wallet.ID, int64(0)).Return(nil)
	f.chargeRepo.EXPECT().Create(ctx, f.tx, gomock.Any()).Return(nil)

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	require.NoError(t, err)
}

// A failed charge insert rolls the debit back with it.
func TestChargeService_InsertFailureRollsBackDebit(t *testing.T) {
	f := newChargeFixture(t)
	ctx := context.Background()
	accountID := uuid.New()
	member := staffMember(accountID)
	phoneID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), AccountID: accountID, Balance: 50000}

	f.teamRepo.EXPECT().GetByUserID(ctx, member.UserID).Return(member, nil)
	f.phoneRepo.EXPECT().GetByID(ctx, phoneID).Return(&domain.PhoneNumber{ID: phoneID}, nil)
	f.expectTx(false)
	f.walletRepo.EXPECT().GetByAccountIDForUpdate(ctx, f.tx, accountID).Return(wallet, nil)
	f.walletRepo.EXPECT().SetBalance(ctx, f.tx, wallet.ID, int64(40000)).Return(nil)
	f.chargeRepo.EXPECT().Create(ctx, f.tx, gomock.Any()).Return(assert.AnError)

	_, err := f.svc.CreateCharge(ctx, ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        member.UserID,
		Amount:        10000,
	})
	assert.True(t, apperror.Is(err, apperror.CodeInternal))
}
