package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/async"
	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/product"
)

const defaultReentryTimeout = 250 * time.Millisecond

// DispatchFunc is one link of the dispatch chain.
type DispatchFunc func(a action.Action) error

// Middleware wraps the next link of the dispatch chain. Middleware runs
// after the thunk middleware, so it only ever sees plain actions.
type Middleware func(next DispatchFunc) DispatchFunc

// Config configures a Store. The zero value is usable.
type Config struct {
	// Context is handed to thunks; cancelling it aborts in-flight requests.
	Context context.Context
	Logger  logrus.FieldLogger
	// Preloaded replaces InitialState when non-nil.
	Preloaded *RootState
	// Reducer replaces RootReducer when non-nil.
	Reducer    Reducer
	Middleware []Middleware
	// ReentryTimeout bounds how long Dispatch waits on one running
	// reduction before treating the call as a dispatch from inside that
	// reducer. Waiting behind a queue of other reductions never trips it;
	// only a single reduction that runs longer than ReentryTimeout does. A
	// reducer that dispatches therefore holds every other dispatcher for
	// up to ReentryTimeout before its nested call fails. Default 250ms.
	ReentryTimeout time.Duration
	// Debug validates cart invariants after every reduction.
	Debug bool
}

type listener struct {
	id uint64
	fn func(RootState)
}

// Store owns RootState and serializes every change to it.
type Store struct {
	ctx            context.Context
	log            logrus.FieldLogger
	reducer        Reducer
	reentryTimeout time.Duration
	debug          bool
	middleware     []Middleware
	dispatch       DispatchFunc

	// slot admits one reduction at a time. reductions counts reductions
	// started, so a waiter can tell one long reduction from many short ones.
	slot       chan struct{}
	reducing   atomic.Bool
	reductions atomic.Uint64

	mu        sync.RWMutex
	state     RootState
	listeners []listener
	nextID    uint64

	// queue holds notifications in commit order. One goroutine at a time
	// drains it.
	notifyMu sync.Mutex
	queue    []notification
	draining bool

	serialMu sync.Mutex
	serial   map[string]*sync.Mutex
}

// Ensure Store can run thunks at compile time.
var _ action.ThunkAPI[RootState] = (*Store)(nil)

// New builds a Store from cfg.
func New(cfg Config) *Store {
	s := &Store{
		ctx:            cfg.Context,
		log:            cfg.Logger,
		reducer:        cfg.Reducer,
		reentryTimeout: cfg.ReentryTimeout,
		debug:          cfg.Debug,
		middleware:     cfg.Middleware,
		slot:           make(chan struct{}, 1),
		state:          InitialState(),
		serial:         make(map[string]*sync.Mutex),
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	s.log = logging.OrDiscard(s.log).WithField("component", "store")
	if s.reducer == nil {
		s.reducer = RootReducer
	}
	if s.reentryTimeout <= 0 {
		s.reentryTimeout = defaultReentryTimeout
	}
	if cfg.Preloaded != nil {
		s.state = *cfg.Preloaded
	}

	plain := s.chain(s.commit)
	s.dispatch = func(a action.Action) error {
		if thunk, ok := a.(action.Thunk[RootState]); ok {
			return s.runThunk(thunk)
		}
		return plain(a)
	}
	return s
}

// Dispatch sends a through the middleware chain. Thunks run synchronously
// in the caller's goroutine; plain actions are reduced and then every
// subscriber is notified with the state that action produced. Dispatch is
// safe for concurrent use.
func (s *Store) Dispatch(a action.Action) error {
	if a == nil {
		return nil
	}
	return s.dispatch(a)
}

// GetState returns the current state. Slices inside it are shared with the
// store and must be treated as read-only.
func (s *Store) GetState() RootState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Context returns the store's lifetime context.
func (s *Store) Context() context.Context {
	return s.ctx
}

// Subscribe registers fn to run after every dispatched action, in
// registration order, with the state that action produced. Notifications
// are delivered one at a time in commit order, so an action a subscriber
// dispatches is seen after the current one. Notifications for a request
// serialized by a thunk are held until the request settles; a subscriber
// that only needs the latest state should read GetState. The returned
// function removes the registration and is safe to call more than once.
func (s *Store) Subscribe(fn func(RootState)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			kept := make([]listener, 0, len(s.listeners))
			for _, l := range s.listeners {
				if l.id != id {
					kept = append(kept, l)
				}
			}
			s.listeners = kept
		})
	}
}

// Serialize blocks until the caller holds the slot for key.
func (s *Store) Serialize(key string) (release func()) {
	s.serialMu.Lock()
	mu, ok := s.serial[key]
	if !ok {
		mu = &sync.Mutex{}
		s.serial[key] = mu
	}
	s.serialMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// FetchProducts returns the thunk that loads the catalog through f and
// reports it as product/list/{pending,fulfilled,rejected}.
func FetchProducts(f catalog.Fetcher) action.Thunk[RootState] {
	return async.New[RootState, []catalog.Product](product.ListPrefix, f.FetchCatalog).Thunk()
}

// chain wraps final in the configured middleware, outermost first.
func (s *Store) chain(final DispatchFunc) DispatchFunc {
	next := final
	for i := len(s.middleware) - 1; i >= 0; i-- {
		next = s.middleware[i](next)
	}
	return next
}

func (s *Store) runThunk(thunk action.Thunk[RootState]) error {
	sc := &thunkScope{store: s}
	sc.dispatch = s.chain(sc.commit)
	return thunk(sc)
}

// commit reduces a and notifies subscribers.
func (s *Store) commit(a action.Action) error {
	if err := s.apply(a, s.enqueue); err != nil {
		return err
	}
	s.drain()
	return nil
}

// apply runs the reducer for a under the reduction slot and hands the
// state it produced to reduced. reduced runs before the slot is released,
// so calls to it are in commit order.
func (s *Store) apply(a action.Action, reduced func(action.Action, RootState)) error {
	if err := s.acquire(a.Type()); err != nil {
		s.log.WithField("action", a.Type()).Error("dispatch from inside a reducer refused")
		return err
	}

	prev := s.GetState()
	s.reductions.Add(1)
	s.reducing.Store(true)
	next, err := s.runReducer(prev, a)
	s.reducing.Store(false)

	if err == nil {
		s.mu.Lock()
		s.state = next
		s.mu.Unlock()
		reduced(a, next)
	}
	<-s.slot

	if err != nil {
		s.log.WithError(err).WithField("action", a.Type()).Error("reducer failed; state unchanged")
		return err
	}
	if s.debug {
		if verr := next.Cart.Validate(); verr != nil {
			s.log.WithError(verr).WithField("action", a.Type()).Error("cart invariant violated")
		}
	}
	return nil
}

// acquire takes the reduction slot. Reducers are pure and fast, so one
// reduction still running after reentryTimeout is waiting on the caller:
// the caller is that reducer.
func (s *Store) acquire(actionType string) error {
	select {
	case s.slot <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(s.reentryTimeout)
	defer timer.Stop()
	seen := s.reductions.Load()
	for {
		select {
		case s.slot <- struct{}{}:
			return nil
		case <-timer.C:
			current := s.reductions.Load()
			if s.reducing.Load() && current == seen {
				return &ConcurrentDispatchError{Type: actionType}
			}
			seen = current
			timer.Reset(s.reentryTimeout)
		}
	}
}

func (s *Store) runReducer(prev RootState, a action.Action) (next RootState, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ReducerPanicError{Type: a.Type(), Value: p}
		}
	}()
	return s.reducer(prev, a), nil
}

func (s *Store) enqueue(a action.Action, state RootState) {
	s.notifyMu.Lock()
	s.queue = append(s.queue, notification{action: a, state: state})
	s.notifyMu.Unlock()
}

// drain delivers queued notifications until the queue is empty. If another
// call is already draining, that call delivers them instead, including
// calls further up this goroutine's stack when a subscriber dispatches.
func (s *Store) drain() {
	s.notifyMu.Lock()
	if s.draining {
		s.notifyMu.Unlock()
		return
	}
	s.draining = true
	for len(s.queue) > 0 {
		n := s.queue[0]
		s.queue = s.queue[1:]
		s.notifyMu.Unlock()
		s.notify(n.action, n.state)
		s.notifyMu.Lock()
	}
	s.draining = false
	s.notifyMu.Unlock()
}

func (s *Store) notify(a action.Action, state RootState) {
	s.mu.RLock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		s.call(l, a, state)
	}
}

func (s *Store) call(l listener, a action.Action, state RootState) {
	defer func() {
		if p := recover(); p != nil {
			s.log.WithField("action", a.Type()).WithField("panic", p).Error("subscriber panicked")
		}
	}()
	l.fn(state)
}
