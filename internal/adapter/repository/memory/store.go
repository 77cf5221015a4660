package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
)

// Store is an in-memory implementation of the account and ledger
// repositories. It is safe for concurrent use and backs unit tests and
// local development runs (STORE_DRIVER=memory).
type Store struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	entries  []domain.LedgerEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
	}
}

// Get retrieves an account by its platform ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

// List retrieves all accounts. Order is unspecified (map iteration).
func (s *Store) List(ctx context.Context) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		copied := account
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

// Create creates a new account.
func (s *Store) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return domain.ErrDuplicateAccount
	}
	s.accounts[account.ID] = *account
	return nil
}

// SetBalance overwrites the account's balance.
func (s *Store) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	s.accounts[id] = account
	return nil
}

// AppendEntry inserts a ledger entry. Account existence is not checked,
// matching the store contract's acceptance of orphan entries.
func (s *Store) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, *entry)
	return nil
}

// SumSince returns the sum of entry amounts for the account with
// date >= since (inclusive). Returns decimal.Zero when no rows match.
func (s *Store) SumSince(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, entry := range s.entries {
		if entry.AccountID == accountID && !entry.Date.Before(since) {
			sum = sum.Add(entry.Amount)
		}
	}
	return sum, nil
}

// Compile-time checks: Store implements both repository interfaces
var (
	_ domain.AccountRepository = (*Store)(nil)
	_ domain.LedgerRepository  = (*Store)(nil)
)
