package evidence

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by clients that lack credentials or endpoints
var ErrNotConfigured = errors.New("source not configured")

// ErrSourcePanic marks a lookup whose source panicked
var ErrSourcePanic = errors.New("source panicked")

// Result is the outcome of one external lookup: either Ok with data or Failed with a reason.
// Lookups never return errors directly so that one failing source cannot abort the others.
type Result[T any] struct {
	Source string
	Data   []T
	Err    error
}

// Ok wraps a successful lookup
func Ok[T any](source string, data []T) Result[T] {
	return Result[T]{Source: source, Data: data}
}

// Failed wraps a failed lookup
func Failed[T any](source string, err error) Result[T] {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return Result[T]{Source: source, Err: err}
}

// Failed reports whether the lookup failed
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// recovered turns a recovered panic value into a Failed result
func recovered[T any](source string, rec any) Result[T] {
	return Failed[T](source, fmt.Errorf("%w: %v", ErrSourcePanic, rec))
}
