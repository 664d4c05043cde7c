package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/config"
	"github.com/RamadanElSayed/coflow/internal/model"
	"github.com/RamadanElSayed/coflow/pkg/flow"
	"github.com/RamadanElSayed/coflow/pkg/result"
)

// UserResult is the outcome envelope every fetch operation emits.
type UserResult = result.Result[[]model.User]

// FetchPair carries the sampled outcomes of the two concurrent sub-fetches
// of the parallel workflow.
type FetchPair struct {
	Primary   UserResult
	Secondary UserResult
}

var (
	primaryUsers = []model.User{
		{ID: 1, Name: "Ahmed"},
		{ID: 2, Name: "Sara"},
		{ID: 3, Name: "Omar"},
	}
	secondaryUsers = []model.User{
		{ID: 4, Name: "Laila"},
		{ID: 5, Name: "Youssef"},
	}
)

// Repository produces cold result flows over the mock user data.
type Repository struct {
	fetchLatency time.Duration
	retryBackoff time.Duration
	logger       *zap.Logger
}

// New creates a repository with the configured simulated latencies.
func New(cfg config.SourceConfig, logger *zap.Logger) *Repository {
	return &Repository{
		fetchLatency: cfg.FetchLatency,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
	}
}

// FetchUsers emits Loading, waits the simulated latency, then emits one
// Success with the primary user list. Exactly two emissions on the happy
// path.
func (r *Repository) FetchUsers() flow.Flow[UserResult] {
	return r.fetch(primaryUsers)
}

// FetchUsersWithError emits Loading, waits the simulated latency, then emits
// a deterministic failure.
func (r *Repository) FetchUsersWithError() flow.Flow[UserResult] {
	return func(ctx context.Context) <-chan UserResult {
		out := make(chan UserResult)
		go func() {
			defer close(out)
			if !flow.Emit(ctx, out, result.Loading[[]model.User]()) {
				return
			}
			if !r.wait(ctx, r.fetchLatency) {
				return
			}
			flow.Emit(ctx, out, result.Failure[[]model.User]("Failed to fetch users"))
		}()
		return out
	}
}

// FetchSequential performs two strictly ordered fetch stages and emits a
// single Success concatenating both partial lists. The second stage never
// starts before the first completes.
func (r *Repository) FetchSequential() flow.Flow[UserResult] {
	return func(ctx context.Context) <-chan UserResult {
		out := make(chan UserResult)
		go func() {
			defer close(out)
			if !flow.Emit(ctx, out, result.Loading[[]model.User]()) {
				return
			}
			if !r.wait(ctx, r.fetchLatency) {
				return
			}
			first := append([]model.User(nil), primaryUsers...)
			if !r.wait(ctx, r.fetchLatency) {
				return
			}
			combined := append(first, secondaryUsers...)
			flow.Emit(ctx, out, result.Success(combined))
		}()
		return out
	}
}

// FetchParallel emits a paired loading signal, runs the primary and
// secondary fetches concurrently, and emits the pair of their FIRST
// emissions. Since each sub-fetch emits Loading before its terminal outcome,
// the sampled pair is normally Loading on both sides and the combined fetch
// never resolves on its own.
func (r *Repository) FetchParallel() flow.Flow[FetchPair] {
	return func(ctx context.Context) <-chan FetchPair {
		out := make(chan FetchPair)
		go func() {
			defer close(out)

			loading := result.Loading[[]model.User]()
			if !flow.Emit(ctx, out, FetchPair{Primary: loading, Secondary: loading}) {
				return
			}

			sub, cancel := context.WithCancel(ctx)
			defer cancel()

			primary := r.fetch(primaryUsers)(sub)
			secondary := r.fetch(secondaryUsers)(sub)

			var pair FetchPair
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				if res, ok := <-primary; ok {
					pair.Primary = res
				}
			}()
			go func() {
				defer wg.Done()
				if res, ok := <-secondary; ok {
					pair.Secondary = res
				}
			}()
			wg.Wait()
			cancel() // the rest of each sub-fetch is abandoned

			flow.Emit(ctx, out, pair)
		}()
		return out
	}
}

// RetryFetchingUsers wraps FetchUsers in the hand-rolled bounded retry loop.
func (r *Repository) RetryFetchingUsers(attempts int) flow.Flow[UserResult] {
	return retryFlow(r.FetchUsers(), attempts, r.retryBackoff)
}

// RetryBackoff exposes the configured backoff for workflows that build their
// own retry policy around a fetch.
func (r *Repository) RetryBackoff() time.Duration {
	return r.retryBackoff
}

// retryFlow re-subscribes src up to attempts times. Loading and Success
// emissions are forwarded live and a Success ends the loop. An Error is
// forwarded only on the final attempt; non-final attempts wait the backoff
// and try again. If no attempt succeeds, one synthetic exhaustion Error is
// emitted after the loop, so full exhaustion observably yields two Error
// envelopes: the final attempt's and the synthetic one.
func retryFlow(src flow.Flow[UserResult], attempts int, backoff time.Duration) flow.Flow[UserResult] {
	return func(ctx context.Context) <-chan UserResult {
		out := make(chan UserResult)
		go func() {
			defer close(out)

			succeeded := false
			for attempt := 1; attempt <= attempts && !succeeded; attempt++ {
				final := attempt == attempts
				for res := range src(ctx) {
					switch res.Kind() {
					case result.KindLoading:
						if !flow.Emit(ctx, out, res) {
							return
						}
					case result.KindSuccess:
						succeeded = true
						if !flow.Emit(ctx, out, res) {
							return
						}
					case result.KindError:
						if final {
							if !flow.Emit(ctx, out, res) {
								return
							}
						}
					}
				}
				if ctx.Err() != nil {
					return
				}
				if !succeeded && !final {
					select {
					case <-time.After(backoff):
					case <-ctx.Done():
						return
					}
				}
			}

			if !succeeded {
				flow.Emit(ctx, out, result.Failure[[]model.User](
					fmt.Sprintf("Retry failed after %d attempts", attempts)))
			}
		}()
		return out
	}
}

// fetch is the shared happy-path fetch: Loading, simulated latency, Success.
func (r *Repository) fetch(users []model.User) flow.Flow[UserResult] {
	return func(ctx context.Context) <-chan UserResult {
		out := make(chan UserResult)
		go func() {
			defer close(out)
			r.logger.Debug("fetch started", zap.Int("users", len(users)))
			if !flow.Emit(ctx, out, result.Loading[[]model.User]()) {
				return
			}
			if !r.wait(ctx, r.fetchLatency) {
				r.logger.Debug("fetch abandoned", zap.Error(ctx.Err()))
				return
			}
			flow.Emit(ctx, out, result.Success(append([]model.User(nil), users...)))
		}()
		return out
	}
}

// wait sleeps for d, reporting false if the context was cancelled first.
func (r *Repository) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
