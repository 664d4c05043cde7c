package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/application/orchestrator"
	"github.com/RamadanElSayed/coflow/internal/application/repository"
	"github.com/RamadanElSayed/coflow/internal/application/workers"
	"github.com/RamadanElSayed/coflow/internal/config"
	"github.com/RamadanElSayed/coflow/internal/model"
	"github.com/RamadanElSayed/coflow/pkg/ports"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Drive every workflow once and print the channel output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := initLogger("warn")
	defer func() { _ = logger.Sync() }()

	repo := repository.New(cfg.Source, logger)
	pool := workers.NewPool(cfg.Workers.PoolSize, cfg.Workers.QueueDepth, ports.NopMetrics{}, logger, cfg.Workers.HealthCheckInterval)
	if err := pool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	orch := orchestrator.New(cfg, repo, pool, ports.NopMetrics{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Print everything the three channels deliver.
	go func() {
		for state := range orch.State().Subscribe(ctx) {
			fmt.Printf("state   | loading=%-5v users=%d error=%q\n",
				state.IsLoading, len(state.Users), state.ErrorMessage)
		}
	}()
	go func() {
		for event := range orch.Events().Subscribe(ctx) {
			fmt.Printf("event   | %s\n", event)
		}
	}()
	go func() {
		for {
			msg, err := orch.Notifications().Receive(ctx)
			if err != nil {
				return
			}
			fmt.Printf("notice  | %s\n", msg)
		}
	}()

	// The settle pause keeps the printed output of one workflow from
	// interleaving with the next; it is presentation pacing only.
	settle := 2*cfg.Source.FetchLatency + cfg.Workflows.ChainDelay + 500*time.Millisecond

	scripted := []model.Intent{
		model.IntentBasicLaunch,
		model.IntentAPIRequest,
		model.IntentFetchSequential,
		model.IntentFetchParallel,
		model.IntentFetchWithError,
		model.IntentRetryFailedRequest,
		model.IntentChainedWorkflow,
		model.IntentTaskWithTimeout,
		model.IntentRetryFlowExample,
		model.IntentFlowTransformationExample,
		model.IntentCombineFlowsExample,
		model.IntentDebounceExample,
	}

	for _, intent := range scripted {
		fmt.Printf("--- submitting %s\n", intent)
		orch.Submit(intent)
		time.Sleep(settle)
	}

	// Long task plus a mid-flight cancel to show cooperative cancellation.
	fmt.Printf("--- submitting %s\n", model.IntentStartLongRunningTask)
	orch.Submit(model.IntentStartLongRunningTask)
	time.Sleep(2*cfg.Workflows.LongTaskStepDelay + cfg.Workflows.LongTaskStepDelay/2)
	fmt.Printf("--- submitting %s\n", model.IntentCancelLongRunningTask)
	orch.Submit(model.IntentCancelLongRunningTask)
	time.Sleep(settle)

	if err := orch.Close(); err != nil {
		logger.Error("orchestrator shutdown error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown error", zap.Error(err))
	}

	return nil
}
