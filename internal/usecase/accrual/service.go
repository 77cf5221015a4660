package accrual

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
	"github.com/simaogato/walletbot/internal/observability"
)

// TopicCycleCompleted is the broker topic cycle-completed events are
// published to.
const TopicCycleCompleted = "accrual.cycle.completed"

// CycleCompletedEvent is emitted after each accrual cycle.
type CycleCompletedEvent struct {
	Date              string          `json:"date"`
	AccountsProcessed int             `json:"accounts_processed"`
	AccountsFailed    int             `json:"accounts_failed"`
	TotalGain         decimal.Decimal `json:"total_gain"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

// CycleResult summarizes one accrual cycle.
type CycleResult struct {
	Date      time.Time
	Processed int
	Failed    int
	TotalGain decimal.Decimal
}

// Service applies one interest step to every account per cycle.
type Service struct {
	AccountRepo domain.AccountRepository
	LedgerRepo  domain.LedgerRepository
	Publisher   domain.EventPublisher // optional; nil disables publishing
	Rate        decimal.Decimal
	Log         *slog.Logger
	Now         func() time.Time
}

// NewService creates a new accrual Service instance.
// rate is the interest fraction applied per cycle (0.02 = 2%).
func NewService(accountRepo domain.AccountRepository, ledgerRepo domain.LedgerRepository, rate decimal.Decimal, log *slog.Logger) *Service {
	return &Service{
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
		Rate:        rate,
		Log:         log,
		Now:         time.Now,
	}
}

// RunCycle applies interest to every account in the store.
// For each account: gain = balance * rate, the balance is overwritten with
// balance + gain, and one ledger entry dated today records the gain.
// Zero-balance accounts still get a zero-amount entry so every period has a
// complete audit trail.
//
// Accounts are processed independently: a failure on one account is logged
// and the cycle moves on. Within one account the balance write must succeed
// before the ledger entry is attempted; if it fails, no entry is written.
//
// Returns an error only when the account list itself cannot be read.
func (s *Service) RunCycle(ctx context.Context) (*CycleResult, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for accrual: %w", err)
	}

	today := domain.DateOf(s.Now())
	result := &CycleResult{Date: today, TotalGain: decimal.Zero}

	for _, account := range accounts {
		gain := account.Balance.Mul(s.Rate)
		newBalance := account.Balance.Add(gain)

		if err := s.AccountRepo.SetBalance(ctx, account.ID, newBalance); err != nil {
			s.Log.Error("accrual balance update failed, skipping ledger entry",
				"account_id", account.ID, "error", err)
			observability.AccrualFailures.Inc()
			result.Failed++
			continue
		}

		entry := &domain.LedgerEntry{
			ID:        uuid.New(),
			AccountID: account.ID,
			Date:      today,
			Amount:    gain,
		}
		if err := entry.Validate(); err != nil {
			s.Log.Error("accrual produced invalid ledger entry",
				"account_id", account.ID, "error", err)
			observability.AccrualFailures.Inc()
			result.Failed++
			continue
		}
		if err := s.LedgerRepo.AppendEntry(ctx, entry); err != nil {
			s.Log.Error("accrual ledger append failed",
				"account_id", account.ID, "error", err)
			observability.AccrualFailures.Inc()
			result.Failed++
			continue
		}

		result.Processed++
		result.TotalGain = result.TotalGain.Add(gain)
	}

	observability.AccrualCycles.Inc()
	observability.AccountsProcessed.Set(float64(result.Processed))
	s.publishCycleCompleted(ctx, result)

	return result, nil
}

// publishCycleCompleted emits the cycle summary. Best effort: a publish
// failure never fails the cycle.
func (s *Service) publishCycleCompleted(ctx context.Context, result *CycleResult) {
	if s.Publisher == nil {
		return
	}

	event := CycleCompletedEvent{
		Date:              result.Date.Format("2006-01-02"),
		AccountsProcessed: result.Processed,
		AccountsFailed:    result.Failed,
		TotalGain:         result.TotalGain,
		OccurredAt:        s.Now().UTC(),
	}
	if err := s.Publisher.Publish(ctx, TopicCycleCompleted, event); err != nil {
		s.Log.Error("failed to publish cycle-completed event", "error", err)
	}
}
