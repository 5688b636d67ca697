package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrConcurrentDispatch matches any *ConcurrentDispatchError via errors.Is.
var ErrConcurrentDispatch = errors.New("reducers may not dispatch actions")

// ConcurrentDispatchError is returned when Dispatch is called while a
// reducer is running, i.e. from inside a reducer.
type ConcurrentDispatchError struct {
	Type string
}

func (e *ConcurrentDispatchError) Error() string {
	return fmt.Sprintf("dispatch %q during reduction: %v", e.Type, ErrConcurrentDispatch)
}

func (e *ConcurrentDispatchError) Is(target error) bool {
	return target == ErrConcurrentDispatch
}

// ReducerPanicError wraps a value recovered from a panicking reducer.
type ReducerPanicError struct {
	Type  string
	Value any
}

func (e *ReducerPanicError) Error() string {
	return fmt.Sprintf("reducer panicked on %q: %v", e.Type, e.Value)
}
