package channels

import (
	"context"
	"sync"
)

// State is a conflated latest-value channel. It always holds a current
// value. Setting a new value replaces the previous one and wakes every
// subscriber; a subscriber that has not consumed the previous value only
// observes the newest one.
type State[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]chan T
	nextID  int
}

// NewState creates a State channel holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{
		current: initial,
		subs:    make(map[int]chan T),
	}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the current value and notifies subscribers. Never blocks:
// each subscriber channel holds at most the latest value.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = v
	for _, ch := range s.subs {
		conflatedSend(ch, v)
	}
}

// Update atomically derives the next value from the current one and sets it.
// The returned value is the new current value.
func (s *State[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = fn(s.current)
	for _, ch := range s.subs {
		conflatedSend(ch, s.current)
	}
	return s.current
}

// Subscribe registers an observer. The returned channel immediately carries
// the current value, then the latest value after every replacement. The
// subscription is removed and the channel closed when ctx is cancelled.
func (s *State[T]) Subscribe(ctx context.Context) <-chan T {
	s.mu.Lock()
	ch := make(chan T, 1)
	ch <- s.current
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

// conflatedSend replaces whatever is buffered in a capacity-1 channel with v.
func conflatedSend[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
