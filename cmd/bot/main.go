package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/simaogato/walletbot/internal/adapter/events/kafka"
	"github.com/simaogato/walletbot/internal/adapter/httpapi"
	"github.com/simaogato/walletbot/internal/adapter/platform/discord"
	"github.com/simaogato/walletbot/internal/adapter/repository/memory"
	"github.com/simaogato/walletbot/internal/adapter/repository/postgres"
	"github.com/simaogato/walletbot/internal/config"
	"github.com/simaogato/walletbot/internal/domain"
	"github.com/simaogato/walletbot/internal/observability"
	"github.com/simaogato/walletbot/internal/scheduler"
	"github.com/simaogato/walletbot/internal/usecase/accrual"
	"github.com/simaogato/walletbot/internal/usecase/displaysync"
	"github.com/simaogato/walletbot/internal/usecase/gains"
	"github.com/simaogato/walletbot/internal/usecase/provision"
)

func main() {
	// 1. Load configuration (fatal if platform bindings are missing)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.SetupLogging("walletbot", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize the store
	var accountRepo domain.AccountRepository
	var ledgerRepo domain.LedgerRepository

	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		accountRepo, ledgerRepo = store, store
		logger.Warn("using in-memory store, state will not survive restarts")
	default:
		db, err := postgres.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		accountRepo = postgres.NewAccountRepository(db)
		ledgerRepo = postgres.NewLedgerRepository(db)
	}

	// 3. Platform adapters
	messenger := discord.NewClient(cfg.DiscordToken)
	renderer := discord.NewEmbedRenderer()

	// 4. Services
	gainsService := gains.NewService(ledgerRepo)
	accrualService := accrual.NewService(accountRepo, ledgerRepo, cfg.AccrualRate, logger)

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer publisher.Close()
		accrualService.Publisher = publisher
	}

	provisionService := provision.NewService(accountRepo, messenger, renderer, cfg.WalletChannelID, logger)
	syncService := displaysync.NewService(accountRepo, gainsService, messenger, renderer, cfg.WalletChannelID, logger)

	sched := &scheduler.Scheduler{
		Accrual:     accrualService,
		Sync:        syncService,
		Provision:   provisionService,
		AccountRepo: accountRepo,
		Messenger:   messenger,
		GuildID:     cfg.GuildID,
		Interval:    cfg.AccrualInterval,
		Log:         logger,
	}

	// 5. Ops HTTP API
	apiServer := httpapi.NewServer(accountRepo, gainsService, sched.RunCycleNow, logger)
	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: apiServer.Router()}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("ops API listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		// Startup reconciliation runs first; a failure there is fatal.
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("scheduler: %w", err)
		}
	}()

	// 6. Wait for shutdown signal or fatal error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("fatal error, shutting down", "error", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	logger.Info("walletbot stopped")
}
