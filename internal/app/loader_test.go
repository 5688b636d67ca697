package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/store"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type flakyFetcher struct {
	failures int
	calls    int
}

func (f *flakyFetcher) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &catalog.HTTPError{Status: 503, Path: "/products"}
	}
	return []catalog.Product{{ID: 1, Title: "A", Price: 1}}, nil
}

func newTestLoader(st *store.Store, f catalog.Fetcher, retries int) (*loader, *[]time.Duration) {
	var waits []time.Duration
	return &loader{
		store:   st,
		fetcher: f,
		retries: retries,
		base:    2 * time.Second,
		log:     logging.Discard(),
		wait: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}, &waits
}

func TestLoader_RetriesUntilFulfilled(t *testing.T) {
	st := store.New(store.Config{})
	f := &flakyFetcher{failures: 2}
	l, waits := newTestLoader(st, f, 3)

	if err := l.run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if f.calls != 3 {
		t.Fatalf("calls = %d, want 3", f.calls)
	}
	if len(*waits) != 2 || (*waits)[0] != 2*time.Second || (*waits)[1] != 4*time.Second {
		t.Fatalf("waits = %v, want [2s 4s]", *waits)
	}
	if got := len(st.GetState().Product.ProductList); got != 1 {
		t.Fatalf("ProductList len = %d, want 1", got)
	}
}

func TestLoader_GivesUpAfterRetries(t *testing.T) {
	st := store.New(store.Config{})
	f := &flakyFetcher{failures: 10}
	l, _ := newTestLoader(st, f, 2)

	err := l.run(context.Background())
	var httpErr *catalog.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("run error = %v, want *catalog.HTTPError", err)
	}
	if f.calls != 3 {
		t.Fatalf("calls = %d, want 3 (one try plus two retries)", f.calls)
	}
	if st.GetState().Product.IsLoading {
		t.Fatalf("IsLoading still true after giving up")
	}
}

func TestLoader_ZeroRetriesTriesOnce(t *testing.T) {
	st := store.New(store.Config{})
	f := &flakyFetcher{failures: 1}
	l, waits := newTestLoader(st, f, 0)

	if err := l.run(context.Background()); err == nil {
		t.Fatalf("run returned nil error, want fetch error")
	}
	if f.calls != 1 || len(*waits) != 0 {
		t.Fatalf("calls = %d waits = %v, want one call and no waits", f.calls, *waits)
	}
}

func TestLoader_StopsWhenContextCancelled(t *testing.T) {
	st := store.New(store.Config{})
	f := &flakyFetcher{failures: 10}
	l, _ := newTestLoader(st, f, 5)
	l.wait = sleep

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run error = %v, want context.Canceled", err)
	}
}
