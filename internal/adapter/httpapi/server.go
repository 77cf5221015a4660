package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletbot/internal/domain"
	"github.com/simaogato/walletbot/internal/scheduler"
	"github.com/simaogato/walletbot/internal/usecase/displaysync"
)

// Server exposes the ops HTTP API: health, account lookups, manual accrual
// runs, and Prometheus metrics.
type Server struct {
	AccountRepo domain.AccountRepository
	Gains       displaysync.GainsQuery
	RunCycle    func(ctx context.Context) error
	Log         *slog.Logger
}

// NewServer creates a new ops API server.
// runCycle triggers one accrual cycle plus display sweep; it is expected to
// return scheduler.ErrCycleInFlight when one is already running.
func NewServer(accountRepo domain.AccountRepository, gains displaysync.GainsQuery, runCycle func(ctx context.Context) error, log *slog.Logger) *Server {
	return &Server{
		AccountRepo: accountRepo,
		Gains:       gains,
		RunCycle:    runCycle,
		Log:         log,
	}
}

// Router builds the chi router for the ops API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/accounts/{id}", s.handleGetAccount)
	r.Get("/accounts/{id}/gains", s.handleGetGains)
	r.Post("/accrual/run", s.handleRunAccrual)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// accountResponse is the wire shape for account lookups.
type accountResponse struct {
	ID            string          `json:"id"`
	Balance       decimal.Decimal `json:"balance"`
	ReferralCode  string          `json:"referral_code"`
	ReferralCount int             `json:"referral_count"`
	Gain7Days     decimal.Decimal `json:"gain_7_days"`
	Gain30Days    decimal.Decimal `json:"gain_30_days"`
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := s.AccountRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		s.Log.Error("account lookup failed", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	gain7, err := s.Gains.WindowedGain(r.Context(), id, 7)
	if err != nil {
		s.Log.Error("gain query failed", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute gains")
		return
	}
	gain30, err := s.Gains.WindowedGain(r.Context(), id, 30)
	if err != nil {
		s.Log.Error("gain query failed", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute gains")
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		ID:            account.ID,
		Balance:       account.Balance,
		ReferralCode:  account.ReferralCode,
		ReferralCount: account.ReferralCount,
		Gain7Days:     gain7,
		Gain30Days:    gain30,
	})
}

func (s *Server) handleGetGains(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	gain, err := s.Gains.WindowedGain(r.Context(), id, days)
	if err != nil {
		s.Log.Error("gain query failed", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute gains")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id": id,
		"days":       days,
		"gain":       gain,
	})
}

func (s *Server) handleRunAccrual(w http.ResponseWriter, r *http.Request) {
	if err := s.RunCycle(r.Context()); err != nil {
		if errors.Is(err, scheduler.ErrCycleInFlight) {
			writeError(w, http.StatusConflict, "accrual cycle already running")
			return
		}
		s.Log.Error("manual accrual run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "accrual cycle failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "completed"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
