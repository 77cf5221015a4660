package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletbot/internal/domain"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds every external binding, loaded once at process start.
type Config struct {
	StoreDriver string
	DatabaseURL string

	DiscordToken    string
	WalletChannelID string
	GuildID         string

	AccrualRate     decimal.Decimal
	AccrualInterval time.Duration

	KafkaBrokers []string // empty disables event publishing

	HTTPAddr string
	LogLevel slog.Level
}

// Load reads configuration from a .env file (best effort) and the
// environment. Missing platform bindings are fatal: the bot cannot locate
// its wallet channel or guild without them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoreDriver: envOr("STORE_DRIVER", StorePostgres),
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
	}

	if cfg.StoreDriver != StorePostgres && cfg.StoreDriver != StoreMemory {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildConnString()
	}

	var err error
	if cfg.DiscordToken, err = requireEnv("DISCORD_TOKEN"); err != nil {
		return nil, err
	}
	if cfg.WalletChannelID, err = requireEnv("WALLET_CHANNEL_ID"); err != nil {
		return nil, err
	}
	if cfg.GuildID, err = requireEnv("GUILD_ID"); err != nil {
		return nil, err
	}

	cfg.AccrualRate, err = decimal.NewFromString(envOr("ACCRUAL_RATE", "0.02"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_RATE: %w", err)
	}

	cfg.AccrualInterval, err = time.ParseDuration(envOr("ACCRUAL_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_INTERVAL: %w", err)
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	switch strings.ToLower(envOr("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown LOG_LEVEL %q", os.Getenv("LOG_LEVEL"))
	}

	return cfg, nil
}

// buildConnString assembles a Postgres connection string from discrete
// DB_* variables with local-development defaults.
func buildConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "walletbot"),
	)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrConfigMissing, key)
	}
	return value, nil
}
