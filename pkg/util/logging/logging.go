package logging

import (
	"log/slog"
	"os"
	"strings"
)

var levelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// InitDefault installs a JSON slog logger tagged with the replica ID.
// Level comes from LOG_LEVEL, info when unset or unknown.
func InitDefault(replicaID string) {
	level := strings.ToLower(os.Getenv("LOG_LEVEL"))

	logLevel, ok := levelMapping[level]
	if !ok {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})).With("replica_id", replicaID)
	slog.SetDefault(logger)
}

// Component returns the default logger scoped to one subsystem.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
