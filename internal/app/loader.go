package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/store"
)

const (
	defaultRetryBase = 2 * time.Second
	maxBackoff       = 30 * time.Second
)

type dispatcher interface {
	Dispatch(a action.Action) error
}

// loader runs the initial catalog fetch, retrying rejected loads.
type loader struct {
	store   dispatcher
	fetcher catalog.Fetcher
	retries int
	base    time.Duration
	log     logrus.FieldLogger
	wait    func(ctx context.Context, d time.Duration) error
}

// StartLoader launches a background goroutine that loads the catalog. It
// returns immediately.
func StartLoader(ctx context.Context, st dispatcher, f catalog.Fetcher, retries int, log logrus.FieldLogger) {
	l := &loader{
		store:   st,
		fetcher: f,
		retries: retries,
		base:    defaultRetryBase,
		log:     logging.OrDiscard(log).WithField("component", "loader"),
		wait:    sleep,
	}
	go func() {
		if err := l.run(ctx); err != nil {
			l.log.WithError(err).Warn("catalog unavailable; press r to retry")
		}
	}()
}

// run fetches once, then retries up to l.retries more times with
// exponential backoff while the fetch is rejected.
func (l *loader) run(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		var fetchErr error
		tracked := fetcherFunc(func(ctx context.Context) ([]catalog.Product, error) {
			list, err := l.fetcher.FetchCatalog(ctx)
			fetchErr = err
			return list, err
		})
		if err := l.store.Dispatch(store.FetchProducts(tracked)); err != nil {
			return err
		}
		if fetchErr == nil {
			l.log.WithField("attempt", attempt+1).Info("catalog loaded")
			return nil
		}
		if attempt >= l.retries {
			return fetchErr
		}

		delay := calculateBackoff(attempt, l.base)
		l.log.WithError(fetchErr).WithField("retry_in", delay.String()).Warn("catalog fetch failed")
		if err := l.wait(ctx, delay); err != nil {
			return err
		}
	}
}

// calculateBackoff doubles base for every prior failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type fetcherFunc func(ctx context.Context) ([]catalog.Product, error)

func (f fetcherFunc) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	return f(ctx)
}
