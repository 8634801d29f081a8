package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

// NewLogger builds the command logger from --log-level, falling back to
// REVSCAN_LOG_LEVEL and then to warn. Logs go to stderr so machine-readable
// stdout output stays clean.
func NewLogger(cmd *cobra.Command) (*slog.Logger, error) {
	value, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return nil, err
	}
	if value == "" {
		value = os.Getenv("REVSCAN_LOG_LEVEL")
	}

	var level slog.Level
	switch strings.ToLower(value) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "", "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unsupported log level %q (supported: debug, info, warn, error)", value)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}
