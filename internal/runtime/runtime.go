// Package runtime holds the execution environment of the example server.
package runtime

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

type Env string

const (
	Development Env = "dev"
	Test        Env = "test"
	Production  Env = "prod"
)

// NewLogger builds the process logger and installs it as the slog default.
// Records always flow to the otel bridge; in development they are fanned
// out to stderr as well.
func NewLogger(env Env) *slog.Logger {
	var handler slog.Handler
	handler = otelslog.NewHandler("problemdetails-example", otelslog.WithLoggerProvider(global.GetLoggerProvider()))

	if env == Development {
		handler = slogmulti.Fanout(handler, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
