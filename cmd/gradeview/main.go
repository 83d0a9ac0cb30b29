package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradeview/internal/amqp"
	"gradeview/internal/cache"
	"gradeview/internal/cli"
	apphttp "gradeview/internal/http"
	"gradeview/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Initialize AMQP client for ingest announcements (optional). The
	// record service persists either way; without AMQP the worker relies
	// on its timer sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, ingest announcements disabled", "error", err)
		} else {
			amqpClient = client
			defer amqpClient.Close()
		}
	}

	// View caches with periodic expiry cleanup
	cacheManager := cache.NewManager()
	cacheManager.StartCleanup(cfg.ViewCacheTTL)
	defer cacheManager.Stop()

	analytics := services.NewAnalyticsService(repo, cfg.ViewCacheTTL, cacheManager, nil)
	records := services.NewRecordService(repo, amqpClient)

	srv := apphttp.NewServer(":"+cfg.Port, analytics, records)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting gradeview server", "port", cfg.Port, "amqp", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
