// Package store holds the storefront's single RootState and is the only
// place it changes.
//
// # Overview
//
// RootState has two slices, cart and product. Every change is an action
// dispatched through Store.Dispatch and folded into state by a pure
// reducer. Readers call GetState or Subscribe; nothing else writes.
//
//	Producers:                     Consumers:
//	┌──────────────────┐          ┌──────────────────┐
//	│ UI key handlers  │          │ persist writer   │
//	│ FetchProducts    │──Dispatch→ Subscribe(fn)    │
//	│ persist.Rehydrate│  (slot)  │ UI refresh       │
//	└──────────────────┘          └──────────────────┘
//
// # Dispatch Chain
//
// Dispatch passes the action through, in order:
//
//   - the thunk middleware, which runs action.Thunk values synchronously
//     with the store as their ThunkAPI
//   - Config.Middleware, outermost first
//   - the reducer, applied under the reduction slot
//
// Subscribers run after the slot is released, in registration order, once
// per dispatched action, and receive the state that action produced.
// Notifications are queued in commit order and delivered by one goroutine
// at a time, so an action a subscriber dispatches is seen by every
// subscriber after the current one.
//
// # Concurrency Model
//
// Reductions are serialized by a one-slot channel. GetState takes a read
// lock only, so readers never wait on a reducer. A reducer that calls
// Dispatch would wait on its own slot; once that one reduction has run for
// Config.ReentryTimeout the nested call fails with ErrConcurrentDispatch
// and the outer reduction completes normally. Waiting behind a queue of
// short reductions does not count.
//
// A panicking reducer leaves the state unchanged and Dispatch returns a
// *ReducerPanicError. A panicking subscriber is logged and the remaining
// subscribers still run.
//
// # Async Requests
//
// FetchProducts wraps a catalog.Fetcher in an async.Request under the
// "product/list" prefix. Calls for the same prefix are serialized through
// Store.Serialize, so isLoading is true from pending until the matching
// terminal action and never overlaps a second request.
//
// Each thunk gets its own ThunkAPI. Actions it dispatches while holding a
// Serialize slot are reduced at once, but subscribers see them only after
// the slot is released. A subscriber that retries a rejected fetch
// therefore never waits on the request that notified it.
//
// # Rehydration
//
// The Rehydrate action overlays persisted slices onto the current state.
// Slices absent from the action keep their value.
package store
