package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gradeview/internal/amqp"
	"gradeview/internal/cli"
	"gradeview/internal/reports"
	"gradeview/internal/reports/google"
	"gradeview/internal/reports/memory"
	"gradeview/internal/services"
	"gradeview/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting report-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Choose the payout sink
	var writer reports.PayoutWriter
	switch cfg.ReportSink {
	case "sheets":
		sheets, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = sheets
		logger.Info("Payout sink: Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		writer = memory.New()
		logger.Info("Payout sink: in-memory store")
	}

	// Initialize AMQP client for consuming ingest messages (optional).
	// Without it the worker runs on its timer sweep alone.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, running on timer only", "error", err)
		} else {
			amqpClient = client
			defer amqpClient.Close()
		}
	}

	// Payout computation bypasses view caching concerns, so no cache
	// manager is registered here.
	analytics := services.NewAnalyticsService(repo, cfg.ViewCacheTTL, nil, nil)

	w := worker.NewReportWorker(repo, analytics, writer, amqpClient, cfg.ExportInterval, cfg.ExportBatchSize)

	// Run until a shutdown signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Report worker running", "interval", cfg.ExportInterval.String(), "sink", cfg.ReportSink)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
