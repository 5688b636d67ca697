// Package metrics counts what flows through the store and exposes it,
// together with a JSON view of the current state, on a debug listener.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/async"
	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/product"
	"github.com/five82/storefront/internal/store"
)

// Fetch outcomes.
const (
	OutcomeFulfilled = "fulfilled"
	OutcomeRejected  = "rejected"
)

// Metrics holds the storefront collectors on a private registry.
type Metrics struct {
	Registry       *prometheus.Registry
	Actions        *prometheus.CounterVec
	Fetches        *prometheus.CounterVec
	FetchLatencyMS prometheus.Histogram
	CartItems      prometheus.Gauge

	now     func() time.Time
	mu      sync.Mutex
	pending map[string]time.Time
}

// New registers the storefront collectors on a fresh registry.
func New() *Metrics {
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "store",
		Name:      "actions_total",
		Help:      "Total number of actions reduced by the store.",
	}, []string{"type"})
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "catalog",
		Name:      "fetch_total",
		Help:      "Catalog fetches by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "catalog",
		Name:      "fetch_duration_ms",
		Help:      "Catalog fetch latency in milliseconds, pending to settled.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "cart_items",
		Help:      "Total quantity of items in the cart.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(actions, fetches, latency, items)
	return &Metrics{
		Registry:       reg,
		Actions:        actions,
		Fetches:        fetches,
		FetchLatencyMS: latency,
		CartItems:      items,
		now:            time.Now,
		pending:        make(map[string]time.Time),
	}
}

// Middleware counts every plain action and times catalog fetches from
// pending to their terminal action. Actions the store refuses are not
// counted.
func (m *Metrics) Middleware() store.Middleware {
	return func(next store.DispatchFunc) store.DispatchFunc {
		return func(a action.Action) error {
			if err := next(a); err != nil {
				return err
			}
			m.Actions.WithLabelValues(a.Type()).Inc()
			m.observeFetch(a)
			return nil
		}
	}
}

// ObserveState updates state gauges. Register it with Store.Subscribe.
func (m *Metrics) ObserveState(s store.RootState) {
	m.CartItems.Set(float64(s.Cart.TotalQuantity))
}

func (m *Metrics) observeFetch(a action.Action) {
	switch a := a.(type) {
	case async.Pending:
		if a.Prefix != product.ListPrefix {
			return
		}
		m.mu.Lock()
		m.pending[a.RequestID] = m.now()
		m.mu.Unlock()
	case async.Fulfilled[[]catalog.Product]:
		if a.Prefix == product.ListPrefix {
			m.settle(a.RequestID, OutcomeFulfilled)
		}
	case async.Rejected:
		if a.Prefix == product.ListPrefix {
			m.settle(a.RequestID, OutcomeRejected)
		}
	}
}

func (m *Metrics) settle(requestID, outcome string) {
	m.Fetches.WithLabelValues(outcome).Inc()
	m.mu.Lock()
	started, ok := m.pending[requestID]
	delete(m.pending, requestID)
	m.mu.Unlock()
	if ok {
		m.FetchLatencyMS.Observe(float64(m.now().Sub(started)) / float64(time.Millisecond))
	}
}
