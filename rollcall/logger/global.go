package logger

import (
	"log/slog"
	"time"
)

const slowInteraction = 2 * time.Second

// LogInteraction logs the outcome of one command or component interaction.
func LogInteraction(kind, name, user string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_name", user),
		slog.Duration("took", duration),
	}

	switch {
	case err != nil:
		slog.Error("Interaction failed", append(attrs, slog.Any("error", err))...)
	case duration > slowInteraction:
		slog.Warn("Interaction executed slowly", attrs...)
	default:
		slog.Info("Interaction completed", attrs...)
	}
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
