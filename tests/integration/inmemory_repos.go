package integration

import (
	"context"
	"fmt"
	"sync"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.AccountID == accountID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByAccountIDForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.Wallet, error) {
	return r.GetByAccountID(ctx, accountID)
}

func (r *inMemoryWalletRepo) SetBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.Balance = balance
	return nil
}

// --- In-Memory Team Member Repo ---

type inMemoryTeamMemberRepo struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*domain.TeamMember
}

func newInMemoryTeamMemberRepo() *inMemoryTeamMemberRepo {
	return &inMemoryTeamMemberRepo{members: make(map[uuid.UUID]*domain.TeamMember)}
}

func (r *inMemoryTeamMemberRepo) Create(ctx context.Context, m *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *inMemoryTeamMemberRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory Phone Number Repo ---

type inMemoryPhoneNumberRepo struct {
	mu      sync.RWMutex
	numbers map[uuid.UUID]*domain.PhoneNumber
}

func newInMemoryPhoneNumberRepo() *inMemoryPhoneNumberRepo {
	return &inMemoryPhoneNumberRepo{numbers: make(map[uuid.UUID]*domain.PhoneNumber)}
}

func (r *inMemoryPhoneNumberRepo) Create(ctx context.Context, n *domain.PhoneNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.numbers[n.ID] = &cp
	return nil
}

func (r *inMemoryPhoneNumberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PhoneNumber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.numbers[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

// --- In-Memory Charge Repo ---

type inMemoryChargeRepo struct {
	mu      sync.RWMutex
	charges map[uuid.UUID]*domain.Charge
}

func newInMemoryChargeRepo() *inMemoryChargeRepo {
	return &inMemoryChargeRepo{charges: make(map[uuid.UUID]*domain.Charge)}
}

func (r *inMemoryChargeRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Charge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.charges[c.ID] = &cp
	return nil
}

func (r *inMemoryChargeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Charge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charges[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryChargeRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, c := range r.charges {
		if c.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

// sumByAccount is a test helper for conservation checks.
func (r *inMemoryChargeRepo) sumByAccount(accountID uuid.UUID) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, c := range r.charges {
		if c.AccountID == accountID {
			sum += c.Amount
		}
	}
	return sum
}

// --- In-Memory Deposit Repo ---

type inMemoryDepositRepo struct {
	mu       sync.RWMutex
	deposits map[uuid.UUID]*domain.DepositRequest
}

func newInMemoryDepositRepo() *inMemoryDepositRepo {
	return &inMemoryDepositRepo{deposits: make(map[uuid.UUID]*domain.DepositRequest)}
}

func (r *inMemoryDepositRepo) Create(ctx context.Context, d *domain.DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.deposits[d.ID] = &cp
	return nil
}

func (r *inMemoryDepositRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deposits[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *inMemoryDepositRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DepositRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryDepositRepo) Update(ctx context.Context, tx pgx.Tx, d *domain.DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[d.ID]; !ok {
		return fmt.Errorf("deposit request not found")
	}
	cp := *d
	r.deposits[d.ID] = &cp
	return nil
}

func (r *inMemoryDepositRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[id]; !ok {
		return fmt.Errorf("deposit request not found")
	}
	delete(r.deposits, id)
	return nil
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) ListEligibleReviewers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var reviewers []domain.User
	for _, u := range r.users {
		if u.IsStaff {
			reviewers = append(reviewers, *u)
		}
	}
	return reviewers, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions with a single mutex, standing in
// for the row-level exclusive locks the postgres adapter takes. Commit and
// Rollback both release; the deferred Rollback after a Commit is a no-op.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &sync.Once{}, unlock: t.mu.Unlock}, nil
}

// memTx is a pgx.Tx whose only job is releasing the transactor lock exactly once.
type memTx struct {
	release *sync.Once
	unlock  func()
}

func (t *memTx) done() {
	t.release.Do(t.unlock)
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
