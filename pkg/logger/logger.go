package logger

import (
	"log/slog"
	"os"
)

// SetupPrettySlog builds the local-development logger: human readable text
// output at debug level with source locations off.
func SetupPrettySlog() *slog.Logger {
	return slog.New(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}),
	)
}
