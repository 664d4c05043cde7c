package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RamadanElSayed/coflow/internal/application/orchestrator"
	"github.com/RamadanElSayed/coflow/internal/application/repository"
	"github.com/RamadanElSayed/coflow/internal/application/workers"
	"github.com/RamadanElSayed/coflow/internal/config"
	"github.com/RamadanElSayed/coflow/pkg/adapters/history/memory"
	"github.com/RamadanElSayed/coflow/pkg/adapters/metrics/prometheus"
	"github.com/RamadanElSayed/coflow/pkg/api/http"
	"github.com/RamadanElSayed/coflow/pkg/api/websocket"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestrator behind the HTTP/WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return err
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting coflow orchestrator")

	// Initialize adapters
	metricsCollector := prometheus.NewCollector()
	historyRecorder := memory.NewRecorder(cfg.HistoryLimit)

	// Initialize application components
	repo := repository.New(cfg.Source, logger)

	workerPool := workers.NewPool(
		cfg.Workers.PoolSize,
		cfg.Workers.QueueDepth,
		metricsCollector,
		logger,
		cfg.Workers.HealthCheckInterval,
	)
	if err := workerPool.Start(); err != nil {
		logger.Error("failed to start worker pool", zap.Error(err))
		return err
	}

	orchestratorMgr := orchestrator.New(cfg, repo, workerPool, metricsCollector, logger)

	// Record every state replacement for the history endpoint.
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()
	go func() {
		for state := range orchestratorMgr.State().Subscribe(recorderCtx) {
			historyRecorder.Record(state)
		}
	}()

	// Initialize API server
	httpServer := http.NewServer(&http.Config{
		Port:         cfg.HTTPPort,
		Orchestrator: orchestratorMgr,
		History:      historyRecorder,
		Logger:       logger,
	})
	httpServer.SetupWebSocket(websocket.NewHandler(orchestratorMgr, logger))

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("coflow orchestrator started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("worker_pool_size", cfg.Workers.PoolSize))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := orchestratorMgr.Close(); err != nil {
		logger.Error("orchestrator shutdown error", zap.Error(err))
	}

	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown error", zap.Error(err))
	}

	logger.Info("coflow shut down complete")
	return nil
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}

