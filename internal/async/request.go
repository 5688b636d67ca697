// Package async turns a single-shot request function into the
// pending → fulfilled | rejected action sequence a reducer can follow.
//
// Concurrent calls for the same type prefix on one store are serialized:
// a second call waits until the first has dispatched its terminal action,
// so at most one request per prefix is in flight and isLoading never
// observes an overlap. Cancellation is not propagated by the orchestrator
// itself; the body receives the store's lifetime context.
package async

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/five82/storefront/internal/action"
)

// Body performs the request.
type Body[R any] func(ctx context.Context) (R, error)

// Request is a reusable orchestrator for one type prefix.
type Request[S, R any] struct {
	prefix string
	body   Body[R]
	newID  func() string
}

// New builds a Request that dispatches under typePrefix.
func New[S, R any](typePrefix string, body Body[R]) *Request[S, R] {
	return &Request[S, R]{
		prefix: typePrefix,
		body:   body,
		newID:  uuid.NewString,
	}
}

// Prefix returns the request's action type prefix.
func (r *Request[S, R]) Prefix() string { return r.prefix }

// PendingType, FulfilledType and RejectedType return the full action types.
func (r *Request[S, R]) PendingType() string   { return r.prefix + SuffixPending }
func (r *Request[S, R]) FulfilledType() string { return r.prefix + SuffixFulfilled }
func (r *Request[S, R]) RejectedType() string  { return r.prefix + SuffixRejected }

// Thunk returns a dispatchable that runs one request. Errors from the body
// are reported only through the rejected action; the thunk itself returns
// an error only when the store refuses one of its dispatches.
func (r *Request[S, R]) Thunk() action.Thunk[S] {
	return func(api action.ThunkAPI[S]) error {
		release := api.Serialize(r.prefix)
		defer release()

		id := r.newID()
		if err := api.Dispatch(Pending{Prefix: r.prefix, RequestID: id}); err != nil {
			return err
		}

		payload, bodyErr := r.run(api.Context())
		if bodyErr != nil {
			return api.Dispatch(Rejected{Prefix: r.prefix, RequestID: id, Err: bodyErr})
		}
		return api.Dispatch(Fulfilled[R]{Prefix: r.prefix, RequestID: id, Payload: payload})
	}
}

func (r *Request[S, R]) run(ctx context.Context) (payload R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("%s: request panicked: %v", r.prefix, p)
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	return r.body(ctx)
}
