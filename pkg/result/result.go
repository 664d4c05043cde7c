// Package result provides the three-state outcome envelope used by every
// asynchronous operation in the system.
//
// A Result is always in exactly one of three states:
//   - Loading: the operation is in flight, no payload yet
//   - Success: the operation finished and carries its payload
//   - Error: the operation failed and carries a user-visible message
//
// Consumers are expected to switch on Kind and handle all three states.
package result

// Kind identifies which state a Result is in.
type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindError
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is an immutable tagged outcome envelope. The zero value is Loading.
type Result[T any] struct {
	kind    Kind
	data    T
	message string
}

// Loading returns a Result in the Loading state.
func Loading[T any]() Result[T] {
	return Result[T]{kind: KindLoading}
}

// Success returns a Result carrying data.
func Success[T any](data T) Result[T] {
	return Result[T]{kind: KindSuccess, data: data}
}

// Failure returns a Result carrying an error message.
func Failure[T any](message string) Result[T] {
	return Result[T]{kind: KindError, message: message}
}

// Kind returns the active state of the envelope.
func (r Result[T]) Kind() Kind {
	return r.kind
}

// IsLoading reports whether the envelope is in the Loading state.
func (r Result[T]) IsLoading() bool {
	return r.kind == KindLoading
}

// IsSuccess reports whether the envelope is in the Success state.
func (r Result[T]) IsSuccess() bool {
	return r.kind == KindSuccess
}

// IsError reports whether the envelope is in the Error state.
func (r Result[T]) IsError() bool {
	return r.kind == KindError
}

// Data returns the payload. Only meaningful when IsSuccess is true.
func (r Result[T]) Data() T {
	return r.data
}

// Message returns the error message. Only meaningful when IsError is true.
func (r Result[T]) Message() string {
	return r.message
}
