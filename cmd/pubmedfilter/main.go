package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"pubmedfilter/internal/app"
	"pubmedfilter/internal/config"
	"pubmedfilter/internal/logger"
	"syscall"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}
	appLogger, closer, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("FATAL: could not setup logger: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.New(cfg, appLogger, os.Stdout).Run(ctx); err != nil {
		slog.Error("Run failed",
			slog.String("component", "app"),
			slog.Any("error", err),
		)
		log.Printf("FATAL: %v", err)
		stop()
		closer.Close()
		os.Exit(1)
	}
	slog.Info("Application stopped", slog.String("component", "app"))
}
