package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"carteira/internal/amqp"
	"carteira/internal/cli"
	apphttp "carteira/internal/http"
	"carteira/internal/ledger"
	"carteira/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	snapshots, closeStore := cli.InitSnapshotStore(logger, cfg)
	defer closeStore()

	// Open the ledger, seeding it on first run.
	store, err := ledger.Open(context.Background(), snapshots)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}

	// AMQP is optional; without it mutations simply skip event publishing.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Ledger event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger event publishing disabled - no AMQP_URL provided")
	}

	svc := services.NewLedgerService(store, publisher)
	srv := apphttp.NewServer(":"+cfg.Port, svc)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting carteira server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"currency", store.Currency())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
