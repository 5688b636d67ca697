// Package persist mirrors whitelisted slices of the store into a
// storage.Storage and restores them on the next start.
//
// Nothing is written until Rehydrate has finished, so a fresh process
// never overwrites what an earlier one left behind. After that, every
// store change is handed to a single writer goroutine. The writer keeps
// only the latest state, encodes each whitelisted slice and writes the
// envelope when any encoding differs from what it last wrote.
package persist

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/storage"
	"github.com/five82/storefront/internal/store"
)

// DefaultKey is the storage key holding the envelope.
const DefaultKey = "root"

// DefaultWhitelist persists the cart only.
var DefaultWhitelist = []string{store.SliceCart}

// Source is the part of the store the persistor needs.
type Source interface {
	Dispatch(a action.Action) error
	GetState() store.RootState
	Subscribe(fn func(store.RootState)) (unsubscribe func())
}

// Config configures a Persistor.
type Config struct {
	// Key defaults to DefaultKey.
	Key string
	// Whitelist defaults to DefaultWhitelist when nil.
	Whitelist []string
	Logger    logrus.FieldLogger
}

// Persistor keeps storage in step with the store.
type Persistor struct {
	src       Source
	storage   storage.Storage
	key       string
	whitelist []string
	log       logrus.FieldLogger

	mu          sync.Mutex
	rehydrating bool
	rehydrated  bool
	callbacks   []func()
	unsubscribe func()
	latest      store.RootState
	dirty       bool

	// writeMu orders writes and purges and guards lastWritten.
	writeMu     sync.Mutex
	lastWritten map[string]string

	ready    chan struct{}
	wake     chan struct{}
	flushReq chan chan struct{}
	stop     chan struct{}
	stopped  chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
}

// New starts a Persistor for src. Call Rehydrate before relying on it.
func New(src Source, st storage.Storage, cfg Config) *Persistor {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	whitelist := cfg.Whitelist
	if whitelist == nil {
		whitelist = DefaultWhitelist
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Persistor{
		src:         src,
		storage:     st,
		key:         key,
		whitelist:   append([]string(nil), whitelist...),
		log:         logging.OrDiscard(cfg.Logger).WithField("component", "persist"),
		lastWritten: make(map[string]string),
		ready:       make(chan struct{}),
		wake:        make(chan struct{}, 1),
		flushReq:    make(chan chan struct{}),
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
	go p.run()
	return p
}

// Rehydrate reads the stored envelope and merges it into the store. A
// missing or unreadable envelope leaves the state as it is. Afterwards the
// persistor is marked rehydrated, OnRehydrated callbacks run and store
// changes start being written. Calling Rehydrate again does nothing.
func (p *Persistor) Rehydrate(ctx context.Context) error {
	p.mu.Lock()
	if p.rehydrating || p.rehydrated {
		p.mu.Unlock()
		return nil
	}
	p.rehydrating = true
	p.mu.Unlock()

	var dispatchErr error
	blob, ok := p.storage.GetItem(ctx, p.key)
	switch {
	case !ok:
		p.log.Debug("nothing persisted")
	default:
		r, raw, err := Decode(blob, p.whitelist)
		if err != nil {
			p.log.WithError(err).Warn("persisted state unreadable; starting fresh")
			break
		}
		p.writeMu.Lock()
		for k, v := range raw {
			p.lastWritten[k] = v
		}
		p.writeMu.Unlock()
		if dispatchErr = p.src.Dispatch(r); dispatchErr != nil {
			p.log.WithError(dispatchErr).Error("rehydrate dispatch failed")
		}
	}

	// Notifications can arrive out of commit order; always take the latest.
	unsubscribe := p.src.Subscribe(func(store.RootState) { p.enqueue(p.src.GetState()) })

	p.mu.Lock()
	p.rehydrated = true
	p.unsubscribe = unsubscribe
	callbacks := p.callbacks
	p.callbacks = nil
	p.mu.Unlock()
	close(p.ready)

	for _, fn := range callbacks {
		fn()
	}

	// Changes made before rehydration finished are picked up here.
	p.enqueue(p.src.GetState())
	return dispatchErr
}

// Rehydrated reports whether Rehydrate has completed.
func (p *Persistor) Rehydrated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rehydrated
}

// Done is closed once Rehydrate has completed.
func (p *Persistor) Done() <-chan struct{} {
	return p.ready
}

// OnRehydrated runs fn once rehydration has completed, immediately if it
// already has.
func (p *Persistor) OnRehydrated(fn func()) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	if !p.rehydrated {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn()
}

// Flush writes the current state and waits until every pending write has
// reached storage. Before rehydration it does nothing.
func (p *Persistor) Flush(ctx context.Context) error {
	if !p.Rehydrated() {
		return nil
	}
	p.enqueue(p.src.GetState())
	reply := make(chan struct{})
	select {
	case p.flushReq <- reply:
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Purge removes the stored envelope. The next store change writes a fresh
// one.
func (p *Persistor) Purge(ctx context.Context) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.storage.RemoveItem(ctx, p.key)
	p.lastWritten = make(map[string]string)
}

// Close stops watching the store, writes anything still pending and stops
// the writer. It is safe to call more than once.
func (p *Persistor) Close() error {
	p.once.Do(func() {
		p.mu.Lock()
		unsubscribe := p.unsubscribe
		p.unsubscribe = nil
		p.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		close(p.stop)
		<-p.stopped
		p.cancel()
	})
	return nil
}

// enqueue records s as the latest state and wakes the writer. Older
// unwritten states are dropped.
func (p *Persistor) enqueue(s store.RootState) {
	p.mu.Lock()
	p.latest = s
	p.dirty = true
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Persistor) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.writeLatest()
		case reply := <-p.flushReq:
			p.writeLatest()
			close(reply)
		case <-p.stop:
			p.writeLatest()
			return
		}
	}
}

func (p *Persistor) writeLatest() {
	p.mu.Lock()
	if !p.dirty || !p.rehydrated {
		p.mu.Unlock()
		return
	}
	s := p.latest
	p.dirty = false
	p.mu.Unlock()

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	next := make(map[string]string, len(p.whitelist))
	changed := false
	for _, name := range p.whitelist {
		enc, err := EncodeSlice(s, name)
		if err != nil {
			p.log.WithError(err).WithField("slice", name).Error("slice not persisted")
			if prev, ok := p.lastWritten[name]; ok {
				next[name] = prev
			}
			continue
		}
		next[name] = enc
		if p.lastWritten[name] != enc {
			changed = true
		}
		if _, ok := p.lastWritten[name]; !ok {
			changed = true
		}
	}
	if !changed {
		return
	}

	blob, err := encodeEnvelope(next)
	if err != nil {
		p.log.WithError(err).Error("envelope not persisted")
		return
	}
	p.storage.SetItem(p.ctx, p.key, blob)
	p.lastWritten = next
}
