// Command example runs a small gin server whose endpoints all reply with
// problem details bodies, JSON and XML.
package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/3lvia/problemdetails/internal/api"
	"github.com/3lvia/problemdetails/internal/config"
	"github.com/3lvia/problemdetails/internal/observability"
	"github.com/3lvia/problemdetails/internal/runtime"
)

func main() {
	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Otel {
		shutdown, err := observability.Configure(ctx, cfg.Env)
		if err != nil {
			panic(err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("failed to shut down observability", "error", err)
			}
		}()
	}

	runtime.NewLogger(cfg.Env)

	stopServer, errChan := api.Serve(cfg.ApiAddr, cfg.Env)

	select {
	case <-ctx.Done():
	case err := <-errChan:
		slog.ErrorContext(ctx, "example server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stopServer(shutdownCtx)
}
