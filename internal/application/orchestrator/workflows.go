package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/RamadanElSayed/coflow/internal/application/repository"
	"github.com/RamadanElSayed/coflow/internal/model"
	"github.com/RamadanElSayed/coflow/pkg/flow"
	"github.com/RamadanElSayed/coflow/pkg/result"
)

// basicLaunch is the deliberately unstructured workflow: a detached delay
// followed by a single fabricated success, with no cancellation hook at all.
func (o *Orchestrator) basicLaunch(context.Context) {
	o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })

	time.Sleep(o.cfg.BasicLaunchDelay)

	o.applyState(func(s model.UIState) model.UIState {
		return s.WithUsers([]model.User{{ID: 0, Name: "Guest"}})
	})
	o.broadcast("Basic launch finished")
}

// apiRequest folds a single fetch into state.
func (o *Orchestrator) apiRequest(ctx context.Context) {
	for res := range o.repo.FetchUsers()(ctx) {
		o.fold(ctx, res)
	}
}

// fetchWithError folds the deterministic failing fetch into state; the error
// message also lands on the notification queue.
func (o *Orchestrator) fetchWithError(ctx context.Context) {
	for res := range o.repo.FetchUsersWithError()(ctx) {
		o.fold(ctx, res)
	}
}

// fetchSequential folds the two-stage ordered fetch into state.
func (o *Orchestrator) fetchSequential(ctx context.Context) {
	for res := range o.repo.FetchSequential()(ctx) {
		o.fold(ctx, res)
	}
}

// fetchParallel folds the sampled pair of the two concurrent sub-fetches.
func (o *Orchestrator) fetchParallel(ctx context.Context) {
	for pair := range o.repo.FetchParallel()(ctx) {
		o.foldPair(ctx, pair)
	}
}

// foldPair reduces a sampled fetch pair: any Loading side keeps the whole
// pair loading; two successes concatenate; otherwise the first errored side
// wins.
func (o *Orchestrator) foldPair(ctx context.Context, pair repository.FetchPair) {
	switch {
	case pair.Primary.IsLoading() || pair.Secondary.IsLoading():
		o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })
	case pair.Primary.IsSuccess() && pair.Secondary.IsSuccess():
		combined := append(append([]model.User(nil), pair.Primary.Data()...), pair.Secondary.Data()...)
		o.applyState(func(s model.UIState) model.UIState { return s.WithUsers(combined) })
	default:
		msg := pair.Primary.Message()
		if !pair.Primary.IsError() {
			msg = pair.Secondary.Message()
		}
		o.applyState(func(s model.UIState) model.UIState { return s.WithError(msg) })
		o.notify(ctx, msg)
	}
}

// retryFailedRequest folds the hand-rolled bounded retry over the fetch.
func (o *Orchestrator) retryFailedRequest(ctx context.Context) {
	for res := range o.repo.RetryFetchingUsers(o.cfg.RetryAttempts)(ctx) {
		o.fold(ctx, res)
	}
}

// retryWithPolicy wraps the fetch in the generic retry-while combinator, the
// declarative counterpart of retryFailedRequest.
func (o *Orchestrator) retryWithPolicy(ctx context.Context) {
	retried := flow.Retry(
		o.repo.FetchUsers(),
		o.cfg.RetryAttempts,
		o.cfg.RetryBackoff,
		func(r repository.UserResult) bool { return r.IsError() },
	)
	for res := range retried(ctx) {
		o.fold(ctx, res)
	}
}

// chainedWorkflow runs a fetch, and on its success waits a fixed delay and
// runs a second fetch, ending with the concatenation of both result sets. A
// first-stage error short-circuits: stage two never starts.
func (o *Orchestrator) chainedWorkflow(ctx context.Context) {
	var first []model.User
	ok := false
	for res := range o.repo.FetchUsers()(ctx) {
		o.fold(ctx, res)
		if res.IsSuccess() {
			first = res.Data()
			ok = true
		}
	}
	if !ok || ctx.Err() != nil {
		return
	}

	if !o.sleep(ctx, o.cfg.ChainDelay) {
		return
	}

	for res := range o.repo.FetchUsers()(ctx) {
		switch res.Kind() {
		case result.KindSuccess:
			combined := append(append([]model.User(nil), first...), res.Data()...)
			o.applyState(func(s model.UIState) model.UIState { return s.WithUsers(combined) })
		default:
			o.fold(ctx, res)
		}
	}
}

// startLongRunningTask runs the cancellable stepped task. Each step waits,
// then publishes a progress event; cancellation is observed at the step wait
// and surfaces as an informational "Task Cancelled" state plus a queued
// notification.
func (o *Orchestrator) startLongRunningTask(ctx context.Context) {
	taskCtx, handle := o.registerLongTask(ctx)
	defer o.clearLongTask(handle)

	o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })

	for step := 1; step <= o.cfg.LongTaskSteps; step++ {
		if !o.sleep(taskCtx, o.cfg.LongTaskStepDelay) {
			if ctx.Err() != nil {
				// Session shutdown, not a user cancel.
				return
			}
			o.applyState(func(s model.UIState) model.UIState { return s.WithError("Task Cancelled") })
			o.notify(ctx, "Task Cancelled")
			return
		}
		o.broadcast(fmt.Sprintf("Long task progress: step %d of %d", step, o.cfg.LongTaskSteps))
	}

	o.applyState(func(s model.UIState) model.UIState { return s.WithIdle() })
	o.broadcast("Long running task completed")
}

// taskWithTimeout bounds a simulated unit of work. In the reference
// configuration the bound is shorter than the work, so the timeout always
// fires; only the bounded sub-task is cancelled and the workflow still runs
// its own cleanup.
func (o *Orchestrator) taskWithTimeout(ctx context.Context) {
	o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })

	workCtx, cancel := context.WithTimeout(ctx, o.cfg.TimeoutBound)
	defer cancel()

	if !o.sleep(workCtx, o.cfg.TimeoutWork) {
		if ctx.Err() != nil {
			return
		}
		o.applyState(func(s model.UIState) model.UIState { return s.WithError("Task Timed Out") })
		o.notify(ctx, "Task Timed Out")
		return
	}

	o.applyState(func(s model.UIState) model.UIState { return s.WithIdle() })
	o.broadcast("Timed task completed within its bound")
}

// transformFlow filters and maps a literal sequence, publishing each
// transformed value as a broadcast event.
func (o *Orchestrator) transformFlow(ctx context.Context) {
	o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })

	evens := flow.Filter(flow.Of(1, 2, 3, 4, 5), func(n int) bool { return n%2 == 0 })
	labels := flow.Map(evens, func(n int) string { return fmt.Sprintf("Processed number: %d", n) })

	for msg := range labels(ctx) {
		o.broadcast(msg)
	}

	o.applyState(func(s model.UIState) model.UIState { return s.WithIdle() })
}

// combineFlows zips a number sequence with a letter sequence pairwise and
// broadcasts the combined values.
func (o *Orchestrator) combineFlows(ctx context.Context) {
	o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })

	pairs := flow.Zip(flow.Of(1, 2, 3), flow.Of("A", "B", "C"), func(n int, letter string) string {
		return fmt.Sprintf("Combined: %d%s", n, letter)
	})

	for msg := range pairs(ctx) {
		o.broadcast(msg)
	}

	o.applyState(func(s model.UIState) model.UIState { return s.WithIdle() })
}

// debounceFlow pushes a rapid-fire literal sequence through a debounce
// window; only the trailing value survives and is broadcast.
func (o *Orchestrator) debounceFlow(ctx context.Context) {
	o.applyState(func(s model.UIState) model.UIState { return s.WithLoading() })

	debounced := flow.Debounce(flow.Of(1, 2, 3, 4), o.cfg.DebounceWindow)
	for v := range debounced(ctx) {
		o.broadcast(fmt.Sprintf("Debounced value: %d", v))
	}

	o.applyState(func(s model.UIState) model.UIState { return s.WithIdle() })
}
