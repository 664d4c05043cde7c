package repository

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/config"
	"github.com/RamadanElSayed/coflow/internal/model"
	"github.com/RamadanElSayed/coflow/pkg/flow"
	"github.com/RamadanElSayed/coflow/pkg/result"
)

func testRepo() *Repository {
	return New(config.SourceConfig{
		FetchLatency: 5 * time.Millisecond,
		RetryBackoff: time.Millisecond,
	}, zap.NewNop())
}

func drain[T any](t *testing.T, f flow.Flow[T]) []T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []T
	for res := range f(ctx) {
		got = append(got, res)
	}
	if ctx.Err() != nil {
		t.Fatalf("Flow did not finish in time")
	}
	return got
}

// failingFetch emits Loading then Error on every subscription.
func failingFetch() flow.Flow[UserResult] {
	return func(ctx context.Context) <-chan UserResult {
		out := make(chan UserResult)
		go func() {
			defer close(out)
			if !flow.Emit(ctx, out, result.Loading[[]model.User]()) {
				return
			}
			flow.Emit(ctx, out, result.Failure[[]model.User]("Failed to fetch users"))
		}()
		return out
	}
}

// flakyFetch fails until attempt k, then succeeds.
func flakyFetch(succeedOn int) flow.Flow[UserResult] {
	attempt := 0
	return func(ctx context.Context) <-chan UserResult {
		out := make(chan UserResult)
		attempt++
		current := attempt
		go func() {
			defer close(out)
			if !flow.Emit(ctx, out, result.Loading[[]model.User]()) {
				return
			}
			if current < succeedOn {
				flow.Emit(ctx, out, result.Failure[[]model.User]("transient"))
				return
			}
			flow.Emit(ctx, out, result.Success([]model.User{{ID: 9, Name: "Nour"}}))
		}()
		return out
	}
}

func TestFetchUsersEmitsLoadingThenSuccess(t *testing.T) {
	got := drain(t, testRepo().FetchUsers())

	if len(got) != 2 {
		t.Fatalf("Expected exactly 2 emissions, got %d", len(got))
	}
	if !got[0].IsLoading() {
		t.Error("First emission must be Loading")
	}
	if !got[1].IsSuccess() {
		t.Fatalf("Second emission must be Success, got %s", got[1].Kind())
	}
	if len(got[1].Data()) != 3 {
		t.Errorf("Expected 3 users, got %d", len(got[1].Data()))
	}
}

func TestFetchUsersIsCold(t *testing.T) {
	f := testRepo().FetchUsers()

	first := drain(t, f)
	second := drain(t, f)

	if len(first) != 2 || len(second) != 2 {
		t.Errorf("Re-subscribing must replay from scratch: %d then %d emissions", len(first), len(second))
	}
}

func TestFetchUsersWithErrorEmitsFailure(t *testing.T) {
	got := drain(t, testRepo().FetchUsersWithError())

	if len(got) != 2 {
		t.Fatalf("Expected 2 emissions, got %d", len(got))
	}
	if !got[1].IsError() || got[1].Message() != "Failed to fetch users" {
		t.Errorf("Expected terminal fetch error, got %s %q", got[1].Kind(), got[1].Message())
	}
}

func TestFetchSequentialConcatenatesInOrder(t *testing.T) {
	start := time.Now()
	got := drain(t, testRepo().FetchSequential())
	elapsed := time.Since(start)

	if len(got) != 2 {
		t.Fatalf("Expected Loading then one Success, got %d emissions", len(got))
	}
	if !got[1].IsSuccess() {
		t.Fatalf("Expected terminal Success, got %s", got[1].Kind())
	}

	users := got[1].Data()
	if len(users) != len(primaryUsers)+len(secondaryUsers) {
		t.Fatalf("Expected %d users, got %d", len(primaryUsers)+len(secondaryUsers), len(users))
	}
	for i, u := range primaryUsers {
		if users[i] != u {
			t.Errorf("Position %d = %+v, want first-stage user %+v", i, users[i], u)
		}
	}
	for i, u := range secondaryUsers {
		if users[len(primaryUsers)+i] != u {
			t.Errorf("Second-stage user out of order at %d: %+v", i, users[len(primaryUsers)+i])
		}
	}

	// Both waits must have elapsed before the Success.
	if elapsed < 10*time.Millisecond {
		t.Errorf("Sequential fetch finished after %v, before both stages could run", elapsed)
	}
}

func TestFetchParallelSamplesFirstEmissions(t *testing.T) {
	got := drain(t, testRepo().FetchParallel())

	if len(got) != 2 {
		t.Fatalf("Expected paired loading plus one sampled pair, got %d emissions", len(got))
	}
	if !got[0].Primary.IsLoading() || !got[0].Secondary.IsLoading() {
		t.Error("First emission must be the paired loading signal")
	}

	// Each sub-fetch emits Loading first, so sampling first emissions
	// yields Loading on both sides. This behavior is preserved on purpose.
	if !got[1].Primary.IsLoading() || !got[1].Secondary.IsLoading() {
		t.Errorf("Sampled pair should hold first emissions (Loading), got %s/%s",
			got[1].Primary.Kind(), got[1].Secondary.Kind())
	}
}

func TestRetryExhaustionEmitsDoubleError(t *testing.T) {
	const attempts = 3
	got := drain(t, retryFlow(failingFetch(), attempts, time.Millisecond))

	var loadings, errors int
	for _, res := range got {
		switch res.Kind() {
		case result.KindLoading:
			loadings++
		case result.KindError:
			errors++
		}
	}

	if loadings != attempts {
		t.Errorf("Expected %d forwarded Loading emissions, got %d", attempts, loadings)
	}
	if errors != 2 {
		t.Fatalf("Exhaustion must forward the final attempt's error plus one synthetic, got %d errors", errors)
	}

	last := got[len(got)-1]
	if last.Message() != "Retry failed after 3 attempts" {
		t.Errorf("Synthetic error message = %q", last.Message())
	}
	if got[len(got)-2].Message() != "Failed to fetch users" {
		t.Errorf("Final attempt error message = %q", got[len(got)-2].Message())
	}
}

func TestRetrySucceedsMidwayWithoutSyntheticError(t *testing.T) {
	got := drain(t, retryFlow(flakyFetch(2), 3, time.Millisecond))

	var successes, errors int
	for _, res := range got {
		switch res.Kind() {
		case result.KindSuccess:
			successes++
		case result.KindError:
			errors++
		}
	}

	if successes != 1 {
		t.Errorf("Expected exactly one Success, got %d", successes)
	}
	if errors != 0 {
		t.Errorf("Non-final errors must be swallowed, got %d forwarded", errors)
	}

	last := got[len(got)-1]
	if !last.IsSuccess() {
		t.Errorf("Expected terminal Success, got %s", last.Kind())
	}
}

func TestRetrySucceedsOnFirstAttemptStopsEarly(t *testing.T) {
	subscriptions := 0
	src := flow.Flow[UserResult](func(ctx context.Context) <-chan UserResult {
		subscriptions++
		return testRepo().FetchUsers()(ctx)
	})

	got := drain(t, retryFlow(src, 3, time.Millisecond))

	if subscriptions != 1 {
		t.Errorf("Expected a single subscription on immediate success, got %d", subscriptions)
	}
	if !got[len(got)-1].IsSuccess() {
		t.Errorf("Expected terminal Success, got %s", got[len(got)-1].Kind())
	}
}
