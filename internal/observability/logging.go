package observability

import (
	"log/slog"
	"os"
)

// SetupLogging configures a JSON slog logger tagged with the service name,
// installs it as the process default, and returns it.
func SetupLogging(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(slog.String("service", service))
	slog.SetDefault(logger)
	return logger
}
