// Package storage is the string key-value layer the persistence engine
// writes through. Backends report errors; the Adapter in front of them
// logs and swallows those errors so callers only ever see "present",
// "absent" or "done".
package storage

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/logging"
)

// Storage is the error-free view used by the persistence engine. A failed
// read reports the key as absent and a failed write completes normally.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool)
	SetItem(ctx context.Context, key, value string)
	RemoveItem(ctx context.Context, key string)
}

// Backend is a concrete key-value store. Each Set replaces the value for a
// key atomically.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Adapter turns a Backend into a Storage.
type Adapter struct {
	backend Backend
	log     logrus.FieldLogger
}

// Ensure Adapter satisfies Storage at compile time.
var _ Storage = (*Adapter)(nil)

// NewAdapter wraps backend. A nil logger discards.
func NewAdapter(backend Backend, log logrus.FieldLogger) *Adapter {
	return &Adapter{
		backend: backend,
		log:     logging.OrDiscard(log).WithField("component", "storage"),
	}
}

// GetItem returns the stored value for key.
func (a *Adapter) GetItem(ctx context.Context, key string) (string, bool) {
	value, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.log.WithError(err).WithField("key", key).Warn("read failed; treating key as absent")
		return "", false
	}
	return value, ok
}

// SetItem stores value under key.
func (a *Adapter) SetItem(ctx context.Context, key, value string) {
	if err := a.backend.Set(ctx, key, value); err != nil {
		a.log.WithError(err).WithField("key", key).Warn("write failed")
	}
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (a *Adapter) RemoveItem(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, key); err != nil {
		a.log.WithError(err).WithField("key", key).Warn("remove failed")
	}
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
