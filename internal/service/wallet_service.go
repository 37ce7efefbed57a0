package service

import (
	"context"
	"fmt"
	"time"

	"provider-billing/internal/core/ports"
	"provider-billing/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	cache      ports.BalanceCache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
// cache may be nil, in which case every read hits postgres.
func NewWalletService(
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	cache ports.BalanceCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		transactor: transactor,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// GetBalance returns the wallet balance for an account, read-through the
// Redis cache when available.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	if s.cache != nil {
		balance, ok, err := s.cache.Get(ctx, accountID)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", accountID.String()).Msg("balance cache read failed, falling through to DB")
		} else if ok {
			return balance, nil
		}
	}

	wallet, err := s.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return 0, apperror.ErrNotFound("wallet")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, accountID, wallet.Balance, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("account_id", accountID.String()).Msg("failed to cache balance")
		}
	}

	return wallet.Balance, nil
}

// Adjust applies delta to the wallet balance as one atomic unit. The wallet
// row lock serializes concurrent adjustments on the same account; accounts
// never block each other. A negative delta below zero fails with
// InsufficientFunds and leaves the balance untouched.
func (s *WalletServiceImpl) Adjust(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByAccountIDForUpdate(ctx, dbTx, accountID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return 0, apperror.ErrNotFound("wallet")
	}

	newBalance := wallet.Balance + delta
	if newBalance < 0 {
		return 0, apperror.ErrInsufficientFunds()
	}

	if err := s.walletRepo.SetBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, accountID)

	s.log.Info().
		Str("account_id", accountID.String()).
		Int64("delta", delta).
		Int64("new_balance", newBalance).
		Msg("wallet adjusted")

	return newBalance, nil
}

// invalidateCache drops the cached balance after a committed mutation
// (best-effort; the TTL bounds staleness if Redis is unavailable).
func (s *WalletServiceImpl) invalidateCache(ctx context.Context, accountID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, accountID); err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID.String()).Msg("failed to invalidate balance cache")
	}
}
