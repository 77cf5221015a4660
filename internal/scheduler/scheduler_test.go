package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/walletbot/internal/domain"
	"github.com/simaogato/walletbot/internal/usecase/accrual"
)

// MockAccrualRunner is a mock implementation of AccrualRunner
type MockAccrualRunner struct {
	mock.Mock
}

func (m *MockAccrualRunner) RunCycle(ctx context.Context) (*accrual.CycleResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accrual.CycleResult), args.Error(1)
}

// MockDisplaySyncer is a mock implementation of DisplaySyncer
type MockDisplaySyncer struct {
	mock.Mock
}

func (m *MockDisplaySyncer) SyncOne(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockDisplaySyncer) SyncAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockProvisioner is a mock implementation of Provisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) EnsureAccount(ctx context.Context, identity string) (*domain.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

// MockMessenger is a mock implementation of Messenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendMessage(ctx context.Context, channelID string, payload domain.DisplayPayload) (string, error) {
	args := m.Called(ctx, channelID, payload)
	return args.String(0), args.Error(1)
}

func (m *MockMessenger) EditMessage(ctx context.Context, channelID, messageID string, payload domain.DisplayPayload) error {
	args := m.Called(ctx, channelID, messageID, payload)
	return args.Error(0)
}

func (m *MockMessenger) FetchMembers(ctx context.Context, guildID string) ([]domain.Member, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func newTestScheduler() (*Scheduler, *MockAccrualRunner, *MockDisplaySyncer, *MockProvisioner, *MockAccountRepository, *MockMessenger) {
	mockAccrual := new(MockAccrualRunner)
	mockSync := new(MockDisplaySyncer)
	mockProvision := new(MockProvisioner)
	mockRepo := new(MockAccountRepository)
	mockMessenger := new(MockMessenger)

	sched := &Scheduler{
		Accrual:     mockAccrual,
		Sync:        mockSync,
		Provision:   mockProvision,
		AccountRepo: mockRepo,
		Messenger:   mockMessenger,
		GuildID:     "G1",
		Interval:    time.Hour,
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return sched, mockAccrual, mockSync, mockProvision, mockRepo, mockMessenger
}

func TestReconcile_ProvisionsMissingAndSyncsExisting(t *testing.T) {
	ctx := context.Background()
	sched, _, mockSync, mockProvision, mockRepo, mockMessenger := newTestScheduler()

	existing := &domain.Account{ID: "known", ReferralCode: "AAAAAA", DisplayMessageID: "M1"}

	mockMessenger.On("FetchMembers", ctx, "G1").Return([]domain.Member{
		{ID: "known"}, {ID: "new"},
	}, nil)
	mockRepo.On("Get", ctx, "known").Return(existing, nil)
	mockRepo.On("Get", ctx, "new").Return(nil, domain.ErrAccountNotFound)
	mockSync.On("SyncOne", ctx, existing).Return(nil)
	mockProvision.On("EnsureAccount", ctx, "new").Return(&domain.Account{ID: "new"}, nil)

	err := sched.Reconcile(ctx)

	require.NoError(t, err)
	mockSync.AssertExpectations(t)
	mockProvision.AssertExpectations(t)
}

func TestReconcile_MemberFetchFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	sched, _, _, _, _, mockMessenger := newTestScheduler()

	mockMessenger.On("FetchMembers", ctx, "G1").Return(nil, errors.New("gateway timeout"))

	err := sched.Reconcile(ctx)

	assert.Error(t, err)
}

func TestReconcile_PerMemberFailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	sched, _, mockSync, mockProvision, mockRepo, mockMessenger := newTestScheduler()

	healthy := &domain.Account{ID: "healthy", ReferralCode: "BBBBBB", DisplayMessageID: "M2"}

	mockMessenger.On("FetchMembers", ctx, "G1").Return([]domain.Member{
		{ID: "broken"}, {ID: "healthy"},
	}, nil)
	mockRepo.On("Get", ctx, "broken").Return(nil, domain.ErrAccountNotFound)
	mockProvision.On("EnsureAccount", ctx, "broken").Return(nil, errors.New("channel unavailable"))
	mockRepo.On("Get", ctx, "healthy").Return(healthy, nil)
	mockSync.On("SyncOne", ctx, healthy).Return(nil)

	err := sched.Reconcile(ctx)

	require.NoError(t, err)
	mockSync.AssertCalled(t, "SyncOne", ctx, healthy)
}

func TestRunCycleNow_RunsAccrualThenSweep(t *testing.T) {
	ctx := context.Background()
	sched, mockAccrual, mockSync, _, _, _ := newTestScheduler()

	mockAccrual.On("RunCycle", ctx).Return(&accrual.CycleResult{
		Date:      time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		Processed: 3,
		TotalGain: decimal.NewFromInt(6),
	}, nil)
	mockSync.On("SyncAll", ctx).Return(nil)

	err := sched.RunCycleNow(ctx)

	require.NoError(t, err)
	mockAccrual.AssertExpectations(t)
	mockSync.AssertExpectations(t)
}

func TestRunCycleNow_FailedCycleSkipsSweep(t *testing.T) {
	ctx := context.Background()
	sched, mockAccrual, mockSync, _, _, _ := newTestScheduler()

	mockAccrual.On("RunCycle", ctx).Return(nil, errors.New("store unavailable"))

	err := sched.RunCycleNow(ctx)

	assert.Error(t, err)
	mockSync.AssertNotCalled(t, "SyncAll")
}

func TestRunCycleNow_DoesNotReenter(t *testing.T) {
	ctx := context.Background()
	sched, mockAccrual, mockSync, _, _, _ := newTestScheduler()

	started := make(chan struct{})
	release := make(chan struct{})

	mockAccrual.On("RunCycle", ctx).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&accrual.CycleResult{TotalGain: decimal.Zero}, nil)
	mockSync.On("SyncAll", ctx).Return(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, sched.RunCycleNow(ctx))
	}()

	<-started
	// a second request while the cycle runs must be refused, not run concurrently
	err := sched.RunCycleNow(ctx)
	assert.ErrorIs(t, err, ErrCycleInFlight)

	close(release)
	wg.Wait()

	mockAccrual.AssertNumberOfCalls(t, "RunCycle", 1)
}
