package store

import (
	"context"
	"sync"

	"github.com/five82/storefront/internal/action"
)

// thunkScope is the ThunkAPI handed to one thunk invocation. Actions it
// dispatches while holding a Serialize slot are reduced immediately but
// their notifications wait until the last slot is released. A subscriber
// reacting to them may then start the same serialized request again
// without waiting on a slot its own goroutine still holds.
type thunkScope struct {
	store    *Store
	dispatch DispatchFunc

	mu      sync.Mutex
	held    int
	pending []notification
}

type notification struct {
	action action.Action
	state  RootState
}

var _ action.ThunkAPI[RootState] = (*thunkScope)(nil)

// Dispatch runs nested thunks in this scope and sends plain actions
// through the middleware chain.
func (sc *thunkScope) Dispatch(a action.Action) error {
	if a == nil {
		return nil
	}
	if thunk, ok := a.(action.Thunk[RootState]); ok {
		return thunk(sc)
	}
	return sc.dispatch(a)
}

func (sc *thunkScope) GetState() RootState { return sc.store.GetState() }

func (sc *thunkScope) Context() context.Context { return sc.store.Context() }

// Serialize takes the store's slot for key. The returned release is safe
// to call more than once and delivers deferred notifications once no slot
// is held.
func (sc *thunkScope) Serialize(key string) (release func()) {
	unlock := sc.store.Serialize(key)
	sc.mu.Lock()
	sc.held++
	sc.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			unlock()
			sc.mu.Lock()
			sc.held--
			var queued []notification
			if sc.held == 0 {
				queued, sc.pending = sc.pending, nil
			}
			sc.mu.Unlock()
			for _, n := range queued {
				sc.store.enqueue(n.action, n.state)
			}
			sc.store.drain()
		})
	}
}

func (sc *thunkScope) commit(a action.Action) error {
	deferred := false
	err := sc.store.apply(a, func(_ action.Action, next RootState) {
		sc.mu.Lock()
		defer sc.mu.Unlock()
		if sc.held > 0 {
			sc.pending = append(sc.pending, notification{action: a, state: next})
			deferred = true
			return
		}
		sc.store.enqueue(a, next)
	})
	if err != nil {
		return err
	}
	if !deferred {
		sc.store.drain()
	}
	return nil
}
