package channels

import (
	"context"
	"sync"
)

// Broadcast is a multicast channel without replay. Every value published is
// fanned out to the subscribers registered at publish time; late subscribers
// miss earlier events. Each subscriber has a fixed buffer and a subscriber
// that falls behind it drops events instead of blocking the producer.
type Broadcast[T any] struct {
	mu     sync.RWMutex
	subs   map[int]chan T
	nextID int
	buffer int
}

// NewBroadcast creates a Broadcast channel whose subscribers buffer up to
// buffer events. A buffer of zero still allocates one slot so a publish to an
// attentive subscriber does not block the producer indefinitely.
func NewBroadcast[T any](buffer int) *Broadcast[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcast[T]{
		subs:   make(map[int]chan T),
		buffer: buffer,
	}
}

// Publish delivers v to every current subscriber. Subscribers with a full
// buffer are skipped.
func (b *Broadcast[T]) Publish(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			// Subscriber is not keeping up; it misses this event.
		}
	}
}

// Subscribe registers an observer for events published from now on. The
// subscription is removed and the channel closed when ctx is cancelled.
func (b *Broadcast[T]) Subscribe(ctx context.Context) <-chan T {
	b.mu.Lock()
	ch := make(chan T, b.buffer)
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broadcast[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
