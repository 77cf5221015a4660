package displaysync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
	"github.com/simaogato/walletbot/internal/observability"
)

// GainsQuery answers windowed-gain queries for the rendered display.
type GainsQuery interface {
	WindowedGain(ctx context.Context, accountID string, windowDays int) (decimal.Decimal, error)
}

// Service reconciles each account's external wallet message with current
// store state. Stateless between calls: every sync recomputes the display
// from the store, so a missed update heals on the next sweep.
type Service struct {
	AccountRepo domain.AccountRepository
	Gains       GainsQuery
	Messenger   domain.Messenger
	Renderer    domain.Renderer
	ChannelID   string
	Log         *slog.Logger
}

// NewService creates a new display sync Service instance
func NewService(accountRepo domain.AccountRepository, gainsQuery GainsQuery, messenger domain.Messenger, renderer domain.Renderer, channelID string, log *slog.Logger) *Service {
	return &Service{
		AccountRepo: accountRepo,
		Gains:       gainsQuery,
		Messenger:   messenger,
		Renderer:    renderer,
		ChannelID:   channelID,
		Log:         log,
	}
}

// SyncOne recomputes the account's 7- and 30-day gains and edits its display
// message. Returns domain.ErrMessageNotFound (wrapped) when the referenced
// message no longer exists; callers treat that as recoverable.
func (s *Service) SyncOne(ctx context.Context, account *domain.Account) error {
	gain7, err := s.Gains.WindowedGain(ctx, account.ID, 7)
	if err != nil {
		return fmt.Errorf("failed to compute 7-day gain for %q: %w", account.ID, err)
	}

	gain30, err := s.Gains.WindowedGain(ctx, account.ID, 30)
	if err != nil {
		return fmt.Errorf("failed to compute 30-day gain for %q: %w", account.ID, err)
	}

	payload, err := s.Renderer.Render(account, gain7, gain30)
	if err != nil {
		return fmt.Errorf("failed to render display for %q: %w", account.ID, err)
	}

	if err := s.Messenger.EditMessage(ctx, s.ChannelID, account.DisplayMessageID, payload); err != nil {
		return fmt.Errorf("failed to update display message for %q: %w", account.ID, err)
	}

	return nil
}

// SyncAll sweeps every account. Failures are isolated per account: one
// broken display is logged and the sweep continues.
// Returns an error only when the account list itself cannot be read.
func (s *Service) SyncAll(ctx context.Context) error {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for display sync: %w", err)
	}

	for _, account := range accounts {
		if err := s.SyncOne(ctx, account); err != nil {
			s.Log.Error("display sync failed", "account_id", account.ID, "error", err)
			observability.DisplaySyncFailures.Inc()
		}
	}

	return nil
}
