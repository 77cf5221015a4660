package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
)

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// AppendEntry inserts a ledger entry. Insert-only; account existence is not
// checked, so orphan entries are accepted.
func (r *ledgerRepository) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, entry_date, amount)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Date.Format("2006-01-02"),
		entry.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// SumSince returns the sum of entry amounts for the account with
// date >= since (inclusive). Returns decimal.Zero when no rows match.
func (r *ledgerRepository) SumSince(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT SUM(amount)
		FROM ledger_entries
		WHERE account_id = $1 AND entry_date >= $2
	`

	var sumStr sql.NullString
	err := r.db.QueryRowContext(ctx, query, accountID, since.Format("2006-01-02")).Scan(&sumStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	// SUM over zero rows yields NULL, not an empty result set
	if !sumStr.Valid {
		return decimal.Zero, nil
	}

	sum, err := decimal.NewFromString(sumStr.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse ledger sum: %w", err)
	}

	return sum, nil
}
