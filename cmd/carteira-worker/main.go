package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"carteira/internal/amqp"
	"carteira/internal/cli"
	"carteira/internal/sheets"
	gsheet "carteira/internal/sheets/google"
	mem "carteira/internal/sheets/memory"
	"carteira/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting carteira-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	snapshots, closeStore := cli.InitSnapshotStore(logger, cfg)
	defer closeStore()

	// Without a spreadsheet ID the worker falls back to an in-memory
	// mirror, which keeps the event pipeline observable in development.
	var mirror sheets.TransactionMirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		mirror = mem.New()
		logger.Info("Google Sheets disabled - using in-memory mirror")
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncWorker := worker.NewSyncWorker(snapshots, mirror)

	// Mirror whatever is already persisted before consuming events.
	if err := syncWorker.Resync(ctx); err != nil {
		logger.Error("Startup resync failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerEvents(gctx, syncWorker.HandleLedgerEvent)
	})
	g.Go(func() error {
		return syncWorker.RunPeriodicResync(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
