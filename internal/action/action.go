// Package action defines the values a store dispatches: plain actions that
// reducers match on, and thunks that the store's middleware runs instead of
// reducing.
package action

import "context"

// Action is a tagged state-change request. Type returns the stable action
// type string, e.g. "cart/addToCart".
type Action interface {
	Type() string
}

// ThunkType is reported by every Thunk. Reducers never see it because the
// thunk middleware intercepts thunks before reduction.
const ThunkType = "@@thunk"

// ThunkAPI is the slice of a store a thunk may use.
type ThunkAPI[S any] interface {
	Dispatch(a Action) error
	GetState() S
	// Context is the store's lifetime context.
	Context() context.Context
	// Serialize blocks until the caller holds the store-wide slot for key
	// and returns the function that releases it.
	Serialize(key string) (release func())
}

// Thunk is a dispatchable callable that performs effects and dispatches
// further actions. The store runs it synchronously inside Dispatch.
type Thunk[S any] func(api ThunkAPI[S]) error

// Type implements Action.
func (Thunk[S]) Type() string { return ThunkType }
