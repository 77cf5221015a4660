package gains

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
)

// Service answers windowed-gain queries over the ledger.
// It is a pure read service: no side effects, derived entirely from store
// state and the current date.
type Service struct {
	LedgerRepo domain.LedgerRepository
	Now        func() time.Time
}

// NewService creates a new gains Service instance
func NewService(ledgerRepo domain.LedgerRepository) *Service {
	return &Service{
		LedgerRepo: ledgerRepo,
		Now:        time.Now,
	}
}

// WindowedGain returns the sum of ledger amounts for the account over the
// trailing windowDays calendar days (inclusive lower bound). Returns
// decimal.Zero when no entries fall inside the window.
func (s *Service) WindowedGain(ctx context.Context, accountID string, windowDays int) (decimal.Decimal, error) {
	if windowDays < 0 {
		return decimal.Zero, errors.New("window days cannot be negative")
	}

	since := domain.DateOf(s.Now()).AddDate(0, 0, -windowDays)
	return s.LedgerRepo.SumSince(ctx, accountID, since)
}
