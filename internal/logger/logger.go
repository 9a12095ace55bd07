package logger

import (
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init installs the process-wide logger.
// env: "development" gives readable text at debug level, anything else JSON at info.
func Init(env string) {
	log = New(env, os.Stdout)
	slog.SetDefault(log)
}

func New(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if env == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(w, opts))
	}
	opts.AddSource = true
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Get returns the process-wide logger, falling back to development output
// when Init has not run.
func Get() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// Component returns a child logger tagged with the component name.
func Component(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// Discard is used by tests that do not assert on log output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
