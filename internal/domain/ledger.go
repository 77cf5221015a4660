package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable record of one balance change on one date.
// Entries are created only by the accrual cycle and never mutated or deleted.
type LedgerEntry struct {
	ID        uuid.UUID
	AccountID string
	Date      time.Time       // calendar date at day granularity (midnight UTC)
	Amount    decimal.Decimal // may carry any sign; accrual writes gains >= 0 for non-negative balances
}

// Validate ensures the ledger entry adheres to domain rules.
func (e *LedgerEntry) Validate() error {
	if e.AccountID == "" {
		return errors.New("ledger entry account ID cannot be empty")
	}

	if e.Date.IsZero() {
		return errors.New("ledger entry date cannot be zero")
	}

	return nil
}

// DateOf truncates t to its calendar date (midnight UTC).
// All ledger dates and window bounds go through this so comparisons stay
// at day granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
