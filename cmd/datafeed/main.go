package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/chart-datafeed/app/server"
	"github.com/muhammadchandra19/chart-datafeed/pkg/config"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(ctx, *cfg)
	if err != nil {
		slog.Error("Failed to create datafeed server", "error", err)
		os.Exit(1)
	}

	errCh, err := srv.Start(ctx)
	if err != nil {
		slog.Error("Failed to start datafeed server", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		slog.Error("Datafeed server failed", "error", err)
	}

	slog.Info("Shutting down datafeed server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.App.ShutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	slog.Info("Datafeed server stopped")
}
