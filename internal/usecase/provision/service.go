package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
)

// Service provisions wallet accounts for newly observed identities.
type Service struct {
	AccountRepo domain.AccountRepository
	Messenger   domain.Messenger
	Renderer    domain.Renderer
	ChannelID   string
	Log         *slog.Logger
}

// NewService creates a new provisioning Service instance.
// channelID is the wallet channel where display messages are posted.
func NewService(accountRepo domain.AccountRepository, messenger domain.Messenger, renderer domain.Renderer, channelID string, log *slog.Logger) *Service {
	return &Service{
		AccountRepo: accountRepo,
		Messenger:   messenger,
		Renderer:    renderer,
		ChannelID:   channelID,
		Log:         log,
	}
}

// EnsureAccount returns the account for the identity, creating it on first
// sight. A new account starts at balance zero with a fresh referral code,
// and its display message is posted before the row is written so the stored
// message reference always points at an existing message.
//
// Idempotent: an existing account is returned unchanged, with no second
// display message and no second store row.
func (s *Service) EnsureAccount(ctx context.Context, identity string) (*domain.Account, error) {
	account, err := s.AccountRepo.Get(ctx, identity)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to look up account %q: %w", identity, err)
	}

	fresh := &domain.Account{
		ID:           identity,
		Balance:      decimal.Zero,
		ReferralCode: domain.NewReferralCode(),
	}

	payload, err := s.Renderer.Render(fresh, decimal.Zero, decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("failed to render display for %q: %w", identity, err)
	}

	messageID, err := s.Messenger.SendMessage(ctx, s.ChannelID, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to post display message for %q: %w", identity, err)
	}
	fresh.DisplayMessageID = messageID

	if err := fresh.Validate(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, fresh); err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			// Lost a provisioning race; the winner's row is authoritative.
			s.Log.Warn("account provisioned concurrently", "account_id", identity)
			return s.AccountRepo.Get(ctx, identity)
		}
		return nil, fmt.Errorf("failed to create account %q: %w", identity, err)
	}

	s.Log.Info("provisioned account",
		"account_id", identity, "display_message_id", messageID)
	return fresh, nil
}
