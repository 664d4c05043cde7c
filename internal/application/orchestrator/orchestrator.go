package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/application/repository"
	"github.com/RamadanElSayed/coflow/internal/application/workers"
	"github.com/RamadanElSayed/coflow/internal/config"
	"github.com/RamadanElSayed/coflow/internal/model"
	"github.com/RamadanElSayed/coflow/pkg/channels"
	"github.com/RamadanElSayed/coflow/pkg/ports"
	"github.com/RamadanElSayed/coflow/pkg/result"
)

// Orchestrator owns the concurrency lifecycle of all workflows and the three
// output channels. One instance is created per session; Close cancels every
// outstanding workflow.
type Orchestrator struct {
	repo    *repository.Repository
	pool    *workers.Pool
	cfg     config.WorkflowConfig
	logger  *zap.Logger
	metrics ports.Metrics

	state   *channels.State[model.UIState]
	events  *channels.Broadcast[string]
	notices *channels.Queue[string]

	// apply is drained by the single state-owner goroutine; workflows send
	// state reducers here instead of touching the state channel directly.
	apply    chan func(model.UIState) model.UIState
	loopDone chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	longTask *taskHandle
}

// taskHandle retains the cancel hook of the currently running long task.
type taskHandle struct {
	cancel context.CancelFunc
}

// New creates an orchestrator for a single session.
func New(
	cfg *config.Config,
	repo *repository.Repository,
	pool *workers.Pool,
	metrics ports.Metrics,
	logger *zap.Logger,
) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		repo:     repo,
		pool:     pool,
		cfg:      cfg.Workflows,
		logger:   logger,
		metrics:  metrics,
		state:    channels.NewState(model.UIState{}),
		events:   channels.NewBroadcast[string](cfg.Channels.BroadcastBuffer),
		notices:  channels.NewQueue[string](cfg.Channels.QueueBuffer),
		apply:    make(chan func(model.UIState) model.UIState, 64),
		loopDone: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	go o.stateLoop()

	return o
}

// State is the conflated latest-value channel of UI snapshots.
func (o *Orchestrator) State() *channels.State[model.UIState] {
	return o.state
}

// Events is the multicast broadcast channel of progress strings.
func (o *Orchestrator) Events() *channels.Broadcast[string] {
	return o.events
}

// Notifications is the point-to-point queue of user-facing messages; each
// message is delivered to exactly one consumer.
func (o *Orchestrator) Notifications() *channels.Queue[string] {
	return o.notices
}

// Snapshot returns the current UI state.
func (o *Orchestrator) Snapshot() model.UIState {
	return o.state.Get()
}

// Submit dispatches an intent to its workflow. Fire-and-forget: it never
// blocks and never reports an error to the caller.
func (o *Orchestrator) Submit(intent model.Intent) {
	if o.ctx.Err() != nil {
		o.logger.Warn("intent dropped, orchestrator is closed",
			zap.String("intent", intent.String()))
		return
	}

	o.metrics.RecordIntentSubmitted(intent.String())

	switch intent {
	case model.IntentBasicLaunch:
		o.launch(intent, o.basicLaunch)
	case model.IntentAPIRequest:
		o.launch(intent, o.apiRequest)
	case model.IntentStartLongRunningTask:
		o.launch(intent, o.startLongRunningTask)
	case model.IntentCancelLongRunningTask:
		o.cancelLongRunningTask()
	case model.IntentFetchSequential:
		o.launch(intent, o.fetchSequential)
	case model.IntentFetchParallel:
		o.launch(intent, o.fetchParallel)
	case model.IntentFetchWithError:
		o.launch(intent, o.fetchWithError)
	case model.IntentRetryFailedRequest:
		o.launch(intent, o.retryFailedRequest)
	case model.IntentChainedWorkflow:
		o.launch(intent, o.chainedWorkflow)
	case model.IntentTaskWithTimeout:
		o.launch(intent, o.taskWithTimeout)
	case model.IntentRetryFlowExample:
		o.launch(intent, o.retryWithPolicy)
	case model.IntentFlowTransformationExample:
		o.launch(intent, o.transformFlow)
	case model.IntentCombineFlowsExample:
		o.launch(intent, o.combineFlows)
	case model.IntentDebounceExample:
		o.launch(intent, o.debounceFlow)
	default:
		// The enumeration is closed; reaching this is a programming error.
		o.logger.Error("unhandled intent", zap.Int("intent", int(intent)))
	}
}

// Close cancels all outstanding workflows, waits for them, and stops the
// state-owner loop.
func (o *Orchestrator) Close() error {
	o.logger.Info("shutting down orchestrator")

	o.cancel()
	o.wg.Wait()
	close(o.apply)
	<-o.loopDone

	o.logger.Info("orchestrator shut down complete")
	return nil
}

// launch schedules a workflow body onto the pool as an independently
// supervised task: a panic inside one workflow is logged and recorded, never
// propagated to siblings.
func (o *Orchestrator) launch(intent model.Intent, body func(ctx context.Context)) {
	runID := uuid.New().String()
	logger := o.logger.With(
		zap.String("intent", intent.String()),
		zap.String("run_id", runID))

	o.wg.Add(1)
	o.metrics.RecordWorkflowStarted(intent.String())
	start := time.Now()

	o.pool.Submit(func(context.Context) {
		defer o.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("workflow panicked", zap.Any("panic", r))
				o.metrics.RecordWorkflowCompleted(intent.String(), "panic", time.Since(start))
			}
		}()

		logger.Debug("workflow started")
		body(o.ctx)
		logger.Debug("workflow finished", zap.Duration("duration", time.Since(start)))
		o.metrics.RecordWorkflowCompleted(intent.String(), "ok", time.Since(start))
	})
}

// stateLoop is the single writer of the state channel. Reducers arrive in
// submission order per workflow; each derives a fresh snapshot from the
// current one.
func (o *Orchestrator) stateLoop() {
	defer close(o.loopDone)
	for fn := range o.apply {
		o.state.Update(fn)
	}
}

// applyState hops a state reducer over to the state-owner goroutine.
func (o *Orchestrator) applyState(fn func(model.UIState) model.UIState) {
	o.apply <- fn
}

// fold applies the uniform state-folding rule to one result emission. Error
// outcomes are additionally pushed onto the notification queue.
func (o *Orchestrator) fold(ctx context.Context, res repository.UserResult) {
	switch res.Kind() {
	case result.KindLoading:
		o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })
	case result.KindSuccess:
		users := res.Data()
		o.applyState(func(s model.UIState) model.UIState { return s.WithUsers(users) })
	case result.KindError:
		msg := res.Message()
		o.applyState(func(s model.UIState) model.UIState { return s.WithError(msg) })
		o.notify(ctx, msg)
	}
}

// notify pushes a message onto the queue channel, blocking the calling
// workflow until a consumer takes it or the context ends.
func (o *Orchestrator) notify(ctx context.Context, msg string) {
	if err := o.notices.Send(ctx, msg); err != nil {
		o.logger.Debug("notification dropped", zap.String("message", msg), zap.Error(err))
		return
	}
	o.metrics.RecordNotificationQueued()
}

// broadcast publishes an event string to all current subscribers.
func (o *Orchestrator) broadcast(msg string) {
	o.events.Publish(msg)
	o.metrics.RecordBroadcastEvent()
}

// sleep waits for d, reporting false if ctx is cancelled first.
func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

// registerLongTask installs a fresh cancellable context for the long-running
// task, cancelling any previous run first.
func (o *Orchestrator) registerLongTask(ctx context.Context) (context.Context, *taskHandle) {
	taskCtx, cancel := context.WithCancel(ctx)
	handle := &taskHandle{cancel: cancel}

	o.mu.Lock()
	if o.longTask != nil {
		o.longTask.cancel()
	}
	o.longTask = handle
	o.mu.Unlock()

	return taskCtx, handle
}

// clearLongTask releases the handle if it still belongs to this run.
func (o *Orchestrator) clearLongTask(handle *taskHandle) {
	o.mu.Lock()
	if o.longTask == handle {
		o.longTask = nil
	}
	o.mu.Unlock()
	handle.cancel()
}

// cancelLongRunningTask cancels the running long task, if any. Cancellation
// is cooperative: the task observes it at its next step wait.
func (o *Orchestrator) cancelLongRunningTask() {
	o.mu.Lock()
	handle := o.longTask
	o.longTask = nil
	o.mu.Unlock()

	if handle == nil {
		o.logger.Info("no long running task to cancel")
		return
	}

	handle.cancel()
	o.logger.Info("long running task cancelled")
}
