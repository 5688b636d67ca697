package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/config"
)

// Open builds the backend named by cfg and wraps it in an Adapter.
func Open(ctx context.Context, cfg config.Storage, log logrus.FieldLogger) (*Adapter, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case config.BackendSQLite, "":
		backend, err = OpenSQLite(cfg.Path)
	case config.BackendFile:
		backend, err = OpenFile(cfg.Path)
	case config.BackendRedis:
		backend, err = OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case config.BackendMemory:
		backend = NewMemoryBackend()
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s storage", cfg.Backend)
	}
	return NewAdapter(backend, log), nil
}
