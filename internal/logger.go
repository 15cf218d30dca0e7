package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the application logger. Production gets JSON lines with
// RFC3339Nano timestamps for the log pipeline; everything else gets the
// human-readable text handler.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	lvl := parseLevel(level)

	if env == "prod" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(level string) *slog.LevelVar {
	lvl := new(slog.LevelVar) // info unless told otherwise
	switch level {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "info":
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		slog.Default().Warn("Unknown log level, staying on info", slog.String("value", level))
	}
	return lvl
}
