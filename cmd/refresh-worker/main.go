package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"ricevute/internal/cli"
	"ricevute/internal/log"
	"ricevute/internal/records"
	"ricevute/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting refresh-worker")

	if cfg.UpstreamAPIURL == "" {
		logger.Error("UPSTREAM_API_URL is required for the snapshot refresh worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	upstream := records.NewUpstreamClient(cfg.UpstreamAPIURL, nil)
	refresher := worker.NewRefreshWorker(upstream, repo, cfg.RefreshInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refresher.Run(ctx)
	})

	logger.Info("Refresh loop started",
		"api_url", cfg.UpstreamAPIURL,
		"interval", cfg.RefreshInterval.String(),
		"snapshot_path", cfg.SQLiteDBPath)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Refresh worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Refresh worker stopped gracefully")
}
