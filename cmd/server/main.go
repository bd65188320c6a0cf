package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk16/flippy-engine/internal"
	"github.com/lk16/flippy-engine/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.SetLogLevel()

	app, cfg, services := internal.SetupApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
	}()

	address := cfg.ServerHost + ":" + cfg.ServerPort
	if err := app.Listen(address); err != nil {
		slog.Error("Server stopped", "error", err)
	}

	if err := services.Close(); err != nil {
		slog.Error("Failed to close services", "error", err)
	}
}
