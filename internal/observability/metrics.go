package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccrualCycles counts completed accrual cycles.
	AccrualCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walletbot_accrual_cycles_total",
		Help: "Number of accrual cycles run.",
	})

	// AccrualFailures counts accounts that failed during an accrual cycle.
	AccrualFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walletbot_accrual_account_failures_total",
		Help: "Number of per-account failures during accrual cycles.",
	})

	// DisplaySyncFailures counts accounts whose display update failed.
	DisplaySyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walletbot_display_sync_failures_total",
		Help: "Number of per-account failures during display sync sweeps.",
	})

	// AccountsProcessed reports how many accounts the last accrual cycle
	// updated successfully.
	AccountsProcessed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "walletbot_accrual_accounts_processed",
		Help: "Accounts successfully processed in the last accrual cycle.",
	})
)
