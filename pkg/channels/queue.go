package channels

import "context"

// Queue is a point-to-point delivery queue. Each sent value is received by
// exactly one consumer. With capacity zero it is a rendezvous: Send blocks
// until a consumer is ready to take the value.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a Queue with the given capacity. Zero means rendezvous.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Send enqueues v, blocking until a consumer accepts it (or buffer space
// frees up). Returns ctx.Err() if the context is cancelled first.
func (q *Queue[T]) Send(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive dequeues the next value, blocking until one is available. Returns
// ctx.Err() if the context is cancelled first.
func (q *Queue[T]) Receive(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryReceive dequeues a value if one is immediately available.
func (q *Queue[T]) TryReceive() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len reports how many values are currently buffered.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}
