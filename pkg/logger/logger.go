package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

func levelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Init(env string) {
	InitWithLevel(env, "")
}

// InitWithLevel configures the process-wide logger. Production gets JSON,
// everything else human-readable text.
func InitWithLevel(env, level string) {
	var handler slog.Handler

	if env == "production" {
		lvl := slog.LevelInfo
		if level != "" {
			lvl = levelFromString(level)
		}
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		lvl := slog.LevelDebug
		if level != "" {
			lvl = levelFromString(level)
		}
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
