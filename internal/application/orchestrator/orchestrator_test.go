package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/application/repository"
	"github.com/RamadanElSayed/coflow/internal/application/workers"
	"github.com/RamadanElSayed/coflow/internal/config"
	"github.com/RamadanElSayed/coflow/internal/model"
	"github.com/RamadanElSayed/coflow/pkg/ports"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort: 8080,
		LogLevel: "info",
		Source: config.SourceConfig{
			FetchLatency: 5 * time.Millisecond,
			RetryBackoff: time.Millisecond,
		},
		Workflows: config.WorkflowConfig{
			BasicLaunchDelay:  5 * time.Millisecond,
			RetryAttempts:     3,
			RetryBackoff:      time.Millisecond,
			LongTaskSteps:     5,
			LongTaskStepDelay: 50 * time.Millisecond,
			TimeoutBound:      30 * time.Millisecond,
			TimeoutWork:       60 * time.Millisecond,
			ChainDelay:        5 * time.Millisecond,
			DebounceWindow:    20 * time.Millisecond,
		},
		Channels:     config.ChannelConfig{BroadcastBuffer: 64, QueueBuffer: 0},
		Workers:      config.WorkerConfig{PoolSize: 8, QueueDepth: 16},
		HistoryLimit: 16,
	}
}

// harness wires an orchestrator with a fast configuration and a queue
// consumer that records every notification.
type harness struct {
	orch *Orchestrator

	mu      sync.Mutex
	notices []string
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()

	logger := zap.NewNop()
	repo := repository.New(cfg.Source, logger)
	pool := workers.NewPool(cfg.Workers.PoolSize, cfg.Workers.QueueDepth, ports.NopMetrics{}, logger, time.Minute)
	if err := pool.Start(); err != nil {
		t.Fatalf("Pool start failed: %v", err)
	}

	h := &harness{orch: New(cfg, repo, pool, ports.NopMetrics{}, logger)}

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go func() {
		for {
			msg, err := h.orch.Notifications().Receive(consumerCtx)
			if err != nil {
				return
			}
			h.mu.Lock()
			h.notices = append(h.notices, msg)
			h.mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		_ = h.orch.Close()
		stopConsumer()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = pool.Shutdown(ctx)
	})

	return h
}

func (h *harness) notifications() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.notices...)
}

func eventually(t *testing.T, within time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Condition not met within %v: %s", within, msg)
}

func TestAPIRequestLoadsUsers(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentAPIRequest)

	eventually(t, 2*time.Second, "fetch result folded into state", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && len(s.Users) == 3 && s.ErrorMessage == ""
	})
}

func TestBasicLaunchFabricatesSuccess(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentBasicLaunch)

	eventually(t, 2*time.Second, "fabricated success applied", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && len(s.Users) == 1 && s.Users[0].Name == "Guest"
	})
}

func TestFetchWithErrorSetsMessageAndQueuesNotification(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentFetchWithError)

	eventually(t, 2*time.Second, "error folded into state", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && s.ErrorMessage == "Failed to fetch users"
	})
	eventually(t, 2*time.Second, "error message queued", func() bool {
		for _, msg := range h.notifications() {
			if msg == "Failed to fetch users" {
				return true
			}
		}
		return false
	})
}

func TestFetchSequentialConcatenatesBothStages(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentFetchSequential)

	eventually(t, 2*time.Second, "both stages concatenated", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && len(s.Users) == 5
	})

	s := h.orch.Snapshot()
	if s.Users[0].ID != 1 || s.Users[3].ID != 4 {
		t.Errorf("First-stage users must precede second-stage users, got %+v", s.Users)
	}
}

func TestFetchParallelReportsLoadingFromSampledPair(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentFetchParallel)

	// The workflow samples only the first emission of each sub-fetch, which
	// is Loading, so state must still report loading after the workflow has
	// finished.
	time.Sleep(100 * time.Millisecond)
	s := h.orch.Snapshot()
	if !s.IsLoading {
		t.Errorf("Expected state to remain loading from the sampled pair, got %+v", s)
	}
	if s.ErrorMessage != "" {
		t.Errorf("Unexpected error message %q", s.ErrorMessage)
	}
}

func TestLongRunningTaskBroadcastsProgressAndCancels(t *testing.T) {
	h := newHarness(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.orch.Events().Subscribe(ctx)

	h.orch.Submit(model.IntentStartLongRunningTask)

	// Consume two progress steps, then cancel before the third lands.
	for i := 0; i < 2; i++ {
		select {
		case msg := <-events:
			if msg == "" {
				t.Fatal("Empty progress event")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for progress event")
		}
	}

	h.orch.Submit(model.IntentCancelLongRunningTask)

	eventually(t, 2*time.Second, "cancellation folded into state", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && s.ErrorMessage == "Task Cancelled"
	})
	eventually(t, 2*time.Second, "cancellation notification queued", func() bool {
		for _, msg := range h.notifications() {
			if msg == "Task Cancelled" {
				return true
			}
		}
		return false
	})

	// No further progress steps may be broadcast after cancellation.
	select {
	case msg := <-events:
		t.Errorf("Unexpected broadcast after cancel: %q", msg)
	case <-time.After(3 * testConfig().Workflows.LongTaskStepDelay):
	}
}

func TestLongRunningTaskCompletesWhenNotCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Workflows.LongTaskSteps = 3
	cfg.Workflows.LongTaskStepDelay = 5 * time.Millisecond
	h := newHarness(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.orch.Events().Subscribe(ctx)

	h.orch.Submit(model.IntentStartLongRunningTask)

	var progress int
	deadline := time.After(2 * time.Second)
	for progress < 3 {
		select {
		case <-events:
			progress++
		case <-deadline:
			t.Fatalf("Saw only %d progress events", progress)
		}
	}

	eventually(t, 2*time.Second, "task finished without error", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && s.ErrorMessage == ""
	})
}

func TestTaskWithTimeoutFiresWhenBoundShorterThanWork(t *testing.T) {
	h := newHarness(t, testConfig()) // bound 30ms < work 60ms

	h.orch.Submit(model.IntentTaskWithTimeout)

	eventually(t, 2*time.Second, "timeout folded into state", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && s.ErrorMessage == "Task Timed Out"
	})
	eventually(t, 2*time.Second, "timeout notification queued", func() bool {
		for _, msg := range h.notifications() {
			if msg == "Task Timed Out" {
				return true
			}
		}
		return false
	})
}

func TestTaskWithTimeoutCompletesWhenBoundLongerThanWork(t *testing.T) {
	cfg := testConfig()
	cfg.Workflows.TimeoutBound = 100 * time.Millisecond
	cfg.Workflows.TimeoutWork = 20 * time.Millisecond
	h := newHarness(t, cfg)

	h.orch.Submit(model.IntentTaskWithTimeout)

	eventually(t, 2*time.Second, "work finished inside the bound", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && s.ErrorMessage == ""
	})

	for _, msg := range h.notifications() {
		if msg == "Task Timed Out" {
			t.Error("Timeout fired despite bound exceeding work duration")
		}
	}
}

func TestChainedWorkflowConcatenatesBothFetches(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentChainedWorkflow)

	eventually(t, 2*time.Second, "both chained fetches folded", func() bool {
		s := h.orch.Snapshot()
		return !s.IsLoading && len(s.Users) == 6
	})
}

func TestRetryWorkflowsSucceedAgainstHealthySource(t *testing.T) {
	for _, intent := range []model.Intent{model.IntentRetryFailedRequest, model.IntentRetryFlowExample} {
		t.Run(intent.String(), func(t *testing.T) {
			h := newHarness(t, testConfig())

			h.orch.Submit(intent)

			eventually(t, 2*time.Second, "retry produced users", func() bool {
				s := h.orch.Snapshot()
				return !s.IsLoading && len(s.Users) == 3 && s.ErrorMessage == ""
			})
		})
	}
}

func TestFlowTransformationBroadcastsMappedValues(t *testing.T) {
	h := newHarness(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.orch.Events().Subscribe(ctx)

	h.orch.Submit(model.IntentFlowTransformationExample)

	want := []string{"Processed number: 2", "Processed number: 4"}
	for _, expected := range want {
		select {
		case got := <-events:
			if got != expected {
				t.Errorf("Broadcast = %q, want %q", got, expected)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for %q", expected)
		}
	}

	eventually(t, 2*time.Second, "loading cleared", func() bool {
		return !h.orch.Snapshot().IsLoading
	})
}

func TestCombineFlowsBroadcastsZippedPairs(t *testing.T) {
	h := newHarness(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.orch.Events().Subscribe(ctx)

	h.orch.Submit(model.IntentCombineFlowsExample)

	want := []string{"Combined: 1A", "Combined: 2B", "Combined: 3C"}
	for _, expected := range want {
		select {
		case got := <-events:
			if got != expected {
				t.Errorf("Broadcast = %q, want %q", got, expected)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for %q", expected)
		}
	}
}

func TestDebounceBroadcastsOnlyTrailingValue(t *testing.T) {
	h := newHarness(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.orch.Events().Subscribe(ctx)

	h.orch.Submit(model.IntentDebounceExample)

	select {
	case got := <-events:
		if got != "Debounced value: 4" {
			t.Errorf("Broadcast = %q, want trailing value 4", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for debounced value")
	}

	// The suppressed values must never surface.
	select {
	case extra := <-events:
		t.Errorf("Unexpected extra broadcast %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWorkflowsEndWithLoadingCleared(t *testing.T) {
	intents := []model.Intent{
		model.IntentAPIRequest,
		model.IntentFetchSequential,
		model.IntentFetchWithError,
		model.IntentChainedWorkflow,
		model.IntentFlowTransformationExample,
		model.IntentCombineFlowsExample,
		model.IntentDebounceExample,
	}

	for _, intent := range intents {
		t.Run(intent.String(), func(t *testing.T) {
			h := newHarness(t, testConfig())

			h.orch.Submit(intent)

			eventually(t, 2*time.Second, "loading cleared at workflow end", func() bool {
				return !h.orch.Snapshot().IsLoading
			})
		})
	}
}

func TestFailingWorkflowDoesNotDisturbSibling(t *testing.T) {
	h := newHarness(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.orch.Events().Subscribe(ctx)

	// A failing fetch and a long task run concurrently; the failure must
	// not cancel the long task's progress events.
	h.orch.Submit(model.IntentStartLongRunningTask)
	h.orch.Submit(model.IntentFetchWithError)

	eventually(t, 2*time.Second, "failure notification delivered", func() bool {
		for _, msg := range h.notifications() {
			if msg == "Failed to fetch users" {
				return true
			}
		}
		return false
	})

	var progress int
	deadline := time.After(2 * time.Second)
	for progress < 3 {
		select {
		case <-events:
			progress++
		case <-deadline:
			t.Fatalf("Long task stalled after sibling failure, saw %d events", progress)
		}
	}
}

func TestCancelWithoutRunningTaskIsHarmless(t *testing.T) {
	h := newHarness(t, testConfig())

	h.orch.Submit(model.IntentCancelLongRunningTask)

	s := h.orch.Snapshot()
	if s.ErrorMessage != "" {
		t.Errorf("Cancel with no task mutated state: %+v", s)
	}
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	cfg := testConfig()
	logger := zap.NewNop()
	repo := repository.New(cfg.Source, logger)
	pool := workers.NewPool(2, 4, ports.NopMetrics{}, logger, time.Minute)
	if err := pool.Start(); err != nil {
		t.Fatalf("Pool start failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = pool.Shutdown(ctx)
	}()

	orch := New(cfg, repo, pool, ports.NopMetrics{}, logger)
	if err := orch.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Must not panic or deadlock.
	orch.Submit(model.IntentAPIRequest)
}
