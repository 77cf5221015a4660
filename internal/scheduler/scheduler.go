package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/simaogato/walletbot/internal/domain"
	"github.com/simaogato/walletbot/internal/usecase/accrual"
)

// ErrCycleInFlight is returned when a cycle is requested while the previous
// one is still running. Ticks arriving in that state are skipped, never run
// concurrently.
var ErrCycleInFlight = errors.New("accrual cycle already running")

// AccrualRunner runs one accrual cycle.
type AccrualRunner interface {
	RunCycle(ctx context.Context) (*accrual.CycleResult, error)
}

// DisplaySyncer reconciles external wallet displays with store state.
type DisplaySyncer interface {
	SyncOne(ctx context.Context, account *domain.Account) error
	SyncAll(ctx context.Context) error
}

// Provisioner creates accounts for newly observed identities.
type Provisioner interface {
	EnsureAccount(ctx context.Context, identity string) (*domain.Account, error)
}

// Scheduler drives the periodic accrual cycle and the startup
// reconciliation sweep. Single logical thread of control; accounts are
// processed sequentially by the services it invokes.
type Scheduler struct {
	Accrual     AccrualRunner
	Sync        DisplaySyncer
	Provision   Provisioner
	AccountRepo domain.AccountRepository
	Messenger   domain.Messenger
	GuildID     string
	Interval    time.Duration
	Log         *slog.Logger

	running atomic.Bool
}

// Reconcile performs the one-time startup sweep: every known platform
// identity is provisioned if absent, otherwise its display is re-synced.
// Failing to fetch the member list is fatal; per-member failures are logged
// and the sweep continues.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	members, err := s.Messenger.FetchMembers(ctx, s.GuildID)
	if err != nil {
		return fmt.Errorf("failed to fetch guild members: %w", err)
	}

	for _, member := range members {
		account, err := s.AccountRepo.Get(ctx, member.ID)
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			if _, err := s.Provision.EnsureAccount(ctx, member.ID); err != nil {
				s.Log.Error("startup provisioning failed", "account_id", member.ID, "error", err)
			}
		case err != nil:
			s.Log.Error("startup account lookup failed", "account_id", member.ID, "error", err)
		default:
			if err := s.Sync.SyncOne(ctx, account); err != nil {
				s.Log.Error("startup display sync failed", "account_id", member.ID, "error", err)
			}
		}
	}

	s.Log.Info("startup reconciliation completed", "members", len(members))
	return nil
}

// Run performs the startup reconciliation, then fires an accrual cycle and
// display sweep every Interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Reconcile(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Log.Info("scheduler started", "interval", s.Interval)

	for {
		select {
		case <-ctx.Done():
			s.Log.Info("scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunCycleNow(ctx); err != nil {
				if errors.Is(err, ErrCycleInFlight) {
					s.Log.Warn("previous accrual cycle still running, skipping tick")
					continue
				}
				s.Log.Error("scheduled accrual cycle failed", "error", err)
			}
		}
	}
}

// RunCycleNow runs one accrual cycle followed by a full display sweep.
// Guarded against re-entry: returns ErrCycleInFlight while a cycle is
// already in progress.
func (s *Scheduler) RunCycleNow(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrCycleInFlight
	}
	defer s.running.Store(false)

	result, err := s.Accrual.RunCycle(ctx)
	if err != nil {
		return err
	}
	s.Log.Info("accrual cycle completed",
		"date", result.Date.Format("2006-01-02"),
		"processed", result.Processed,
		"failed", result.Failed,
		"total_gain", result.TotalGain)

	if err := s.Sync.SyncAll(ctx); err != nil {
		return fmt.Errorf("display sweep after accrual failed: %w", err)
	}
	return nil
}
