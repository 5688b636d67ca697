package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/storefront/internal/cart"
	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/store"
)

type stubFetcher struct {
	products []catalog.Product
	err      error
}

func (f stubFetcher) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

func newStore(m *Metrics) *store.Store {
	s := store.New(store.Config{Middleware: []store.Middleware{m.Middleware()}})
	s.Subscribe(m.ObserveState)
	return s
}

func TestMiddleware_CountsActions(t *testing.T) {
	m := New()
	s := newStore(m)
	p := catalog.Product{ID: 1, Price: 2}

	require.NoError(t, s.Dispatch(cart.AddToCart{Product: p}))
	require.NoError(t, s.Dispatch(cart.AddToCart{Product: p}))
	require.NoError(t, s.Dispatch(cart.ClearCart{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues(cart.TypeAddToCart)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues(cart.TypeClearCart)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CartItems))
}

func TestObserveState_TracksCartQuantity(t *testing.T) {
	m := New()
	s := newStore(m)
	require.NoError(t, s.Dispatch(cart.AddToCart{Product: catalog.Product{ID: 1, Price: 2}}))
	require.NoError(t, s.Dispatch(cart.AddToCart{Product: catalog.Product{ID: 2, Price: 3}}))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartItems))
}

func TestMiddleware_TimesFetches(t *testing.T) {
	m := New()
	clock := time.Unix(0, 0)
	m.now = func() time.Time {
		clock = clock.Add(40 * time.Millisecond)
		return clock
	}
	s := newStore(m)

	require.NoError(t, s.Dispatch(store.FetchProducts(stubFetcher{products: []catalog.Product{{ID: 1}}})))
	require.NoError(t, s.Dispatch(store.FetchProducts(stubFetcher{err: errors.New("offline")})))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues(OutcomeFulfilled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.FetchLatencyMS))
	m.mu.Lock()
	assert.Empty(t, m.pending)
	m.mu.Unlock()
}

func TestRouter_ServesMetricsAndState(t *testing.T) {
	m := New()
	s := newStore(m)
	require.NoError(t, s.Dispatch(cart.AddToCart{Product: catalog.Product{ID: 4, Title: "Lamp", Price: 12.5}}))

	srv := httptest.NewServer(Router(m, s))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `storefront_store_actions_total{type="cart/addToCart"} 1`)
	assert.Contains(t, string(body), "storefront_cart_items 1")

	resp, err = http.Get(srv.URL + "/state")
	require.NoError(t, err)
	var st store.RootState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, s.GetState().Cart, st.Cart)

	resp, err = http.Get(srv.URL + "/state/cart")
	require.NoError(t, err)
	var c cart.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	resp.Body.Close()
	assert.Equal(t, 1, c.TotalQuantity)

	resp, err = http.Get(srv.URL + "/state/wishlist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/state", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
