// Package flow provides cold asynchronous sequences built on channels.
//
// A Flow performs no work until it is started: calling the function spawns a
// fresh producer goroutine and returns the channel it emits on. Starting the
// same Flow again re-executes the sequence from scratch. Producers honor
// context cancellation at every send, so abandoning a flow by cancelling its
// context never leaks the producer goroutine.
//
// The combinators compose channel pipelines in the style popularized by
// channel-transformation libraries: each stage consumes an upstream flow and
// returns a new one.
package flow

import (
	"context"
	"time"
)

// Flow is a cold asynchronous sequence of T. Each invocation starts a new
// emission from the beginning and returns the channel it will close when the
// sequence ends.
type Flow[T any] func(ctx context.Context) <-chan T

// Emit sends v on out unless ctx is cancelled first, reporting whether the
// send happened. It is the send primitive for hand-built producers.
func Emit[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// Of returns a flow over a fixed sequence of items, emitted back to back.
func Of[T any](items ...T) Flow[T] {
	return func(ctx context.Context) <-chan T {
		out := make(chan T)
		go func() {
			defer close(out)
			for _, item := range items {
				if !Emit(ctx, out, item) {
					return
				}
			}
		}()
		return out
	}
}

// Map transforms every emission of src through fn.
func Map[T, U any](src Flow[T], fn func(T) U) Flow[U] {
	return func(ctx context.Context) <-chan U {
		out := make(chan U)
		go func() {
			defer close(out)
			for item := range src(ctx) {
				if !Emit(ctx, out, fn(item)) {
					return
				}
			}
		}()
		return out
	}
}

// Filter forwards only the emissions of src for which keep returns true.
func Filter[T any](src Flow[T], keep func(T) bool) Flow[T] {
	return func(ctx context.Context) <-chan T {
		out := make(chan T)
		go func() {
			defer close(out)
			for item := range src(ctx) {
				if !keep(item) {
					continue
				}
				if !Emit(ctx, out, item) {
					return
				}
			}
		}()
		return out
	}
}

// Zip pairs the i-th emission of a with the i-th emission of b and combines
// them. The zipped flow ends when the shorter side ends.
func Zip[T, U, V any](a Flow[T], b Flow[U], combine func(T, U) V) Flow[V] {
	return func(ctx context.Context) <-chan V {
		out := make(chan V)
		go func() {
			defer close(out)
			zctx, cancel := context.WithCancel(ctx)
			defer cancel()

			left := a(zctx)
			right := b(zctx)
			for {
				lv, ok := <-left
				if !ok {
					return
				}
				rv, ok := <-right
				if !ok {
					return
				}
				if !Emit(ctx, out, combine(lv, rv)) {
					return
				}
			}
		}()
		return out
	}
}

// Debounce suppresses emissions that are followed by another emission within
// the quiet window. The last emission before the source ends is always
// forwarded.
func Debounce[T any](src Flow[T], window time.Duration) Flow[T] {
	return func(ctx context.Context) <-chan T {
		out := make(chan T)
		go func() {
			defer close(out)

			in := src(ctx)
			var (
				pending    T
				hasPending bool
				timer      *time.Timer
				timerC     <-chan time.Time
			)
			defer func() {
				if timer != nil {
					timer.Stop()
				}
			}()

			for {
				select {
				case item, ok := <-in:
					if !ok {
						if hasPending {
							Emit(ctx, out, pending)
						}
						return
					}
					pending = item
					hasPending = true
					if timer == nil {
						timer = time.NewTimer(window)
					} else {
						if !timer.Stop() {
							select {
							case <-timer.C:
							default:
							}
						}
						timer.Reset(window)
					}
					timerC = timer.C
				case <-timerC:
					if hasPending {
						if !Emit(ctx, out, pending) {
							return
						}
						hasPending = false
					}
					timerC = nil
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}

// Retry re-runs src up to attempts times while its terminal emission
// satisfies retryable, sleeping backoff between attempts. Intermediate
// emissions of every attempt are forwarded live; a retryable terminal
// emission is forwarded only on the final attempt.
func Retry[T any](src Flow[T], attempts int, backoff time.Duration, retryable func(T) bool) Flow[T] {
	return func(ctx context.Context) <-chan T {
		out := make(chan T)
		go func() {
			defer close(out)

			for attempt := 1; attempt <= attempts; attempt++ {
				var (
					last    T
					hasLast bool
				)
				for item := range src(ctx) {
					if hasLast {
						if !Emit(ctx, out, last) {
							return
						}
					}
					last = item
					hasLast = true
				}
				if ctx.Err() != nil {
					return
				}
				if !hasLast {
					return
				}
				if !retryable(last) || attempt == attempts {
					Emit(ctx, out, last)
					return
				}
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}
