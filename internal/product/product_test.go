package product

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/storefront/internal/async"
	"github.com/five82/storefront/internal/catalog"
)

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Category: "bags"},
		{ID: 2, Title: "Mens Casual T-Shirt", Price: 22.3, Category: "clothing"},
		{ID: 3, Title: "Mens Cotton Jacket", Price: 55.99, Category: "clothing"},
	}
}

func TestReduce_InitialState(t *testing.T) {
	s := Initial()
	assert.False(t, s.IsLoading)
	assert.NotNil(t, s.ProductList)
	assert.Empty(t, s.ProductList)
	assert.NotNil(t, s.FilteredProducts)
	assert.Empty(t, s.FilteredProducts)
}

func TestReduce_PendingSetsLoadingKeepsList(t *testing.T) {
	s := Initial()
	s.ProductList = sampleProducts()

	s = Reduce(s, async.Pending{Prefix: ListPrefix})
	assert.True(t, s.IsLoading)
	assert.Equal(t, sampleProducts(), s.ProductList)
}

func TestReduce_FulfilledStoresPayload(t *testing.T) {
	s := Reduce(Initial(), async.Pending{Prefix: ListPrefix})
	s = Reduce(s, async.Fulfilled[[]catalog.Product]{Prefix: ListPrefix, Payload: sampleProducts()})

	assert.False(t, s.IsLoading)
	assert.Equal(t, sampleProducts(), s.ProductList)
}

func TestReduce_FulfilledNilPayloadBecomesEmpty(t *testing.T) {
	s := Reduce(Initial(), async.Fulfilled[[]catalog.Product]{Prefix: ListPrefix})
	assert.False(t, s.IsLoading)
	assert.NotNil(t, s.ProductList)
	assert.Empty(t, s.ProductList)
}

func TestReduce_RejectedWipesListButNotFilter(t *testing.T) {
	s := Initial()
	s.ProductList = sampleProducts()
	s.FilteredProducts = sampleProducts()[:2]

	s = Reduce(s, async.Pending{Prefix: ListPrefix})
	s = Reduce(s, async.Rejected{Prefix: ListPrefix, Err: errors.New("offline")})

	assert.False(t, s.IsLoading)
	assert.Empty(t, s.ProductList)
	assert.Equal(t, sampleProducts()[:2], s.FilteredProducts, "filteredProducts is the UI's to re-filter")
}

func TestReduce_FetchNeverTouchesFilteredProducts(t *testing.T) {
	s := Reduce(Initial(), SetFilteredProducts{Products: sampleProducts()[1:]})
	s = Reduce(s, async.Fulfilled[[]catalog.Product]{Prefix: ListPrefix, Payload: sampleProducts()[:1]})
	assert.Equal(t, sampleProducts()[1:], s.FilteredProducts)
}

func TestReduce_IgnoresOtherRequestPrefixes(t *testing.T) {
	s := Initial()
	s.ProductList = sampleProducts()

	assert.Equal(t, s, Reduce(s, async.Pending{Prefix: "orders/list"}))
	assert.Equal(t, s, Reduce(s, async.Rejected{Prefix: "orders/list"}))
	assert.Equal(t, s, Reduce(s, async.Fulfilled[[]catalog.Product]{Prefix: "orders/list"}))
}

func TestReduce_SetFilteredProductsReplacesWholesale(t *testing.T) {
	s := Initial()
	s.ProductList = sampleProducts()

	list := []catalog.Product{sampleProducts()[2]}
	s = Reduce(s, SetFilteredProducts{Products: list})
	assert.Equal(t, list, s.FilteredProducts)

	list[0].Title = "mutated"
	assert.Equal(t, "Mens Cotton Jacket", s.FilteredProducts[0].Title, "reducer must not alias the payload")
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := Initial()
	before.ProductList = sampleProducts()
	_ = Reduce(before, async.Rejected{Prefix: ListPrefix})
	assert.Equal(t, sampleProducts(), before.ProductList)
}

func TestFilterByTitle(t *testing.T) {
	list := sampleProducts()

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"   ", []int64{1, 2, 3}},
		{"mens", []int64{2, 3}},
		{"  JACKET ", []int64{3}},
		{"backpack", []int64{1}},
		{"nothing", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := FilterByTitle(list, tt.query)
			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterByTitle_IsSubsequence(t *testing.T) {
	list := sampleProducts()
	for _, q := range []string{"", "m", "t", "e", "zz"} {
		got := FilterByTitle(list, q)
		j := 0
		for _, p := range got {
			for j < len(list) && list[j].ID != p.ID {
				j++
			}
			require.Less(t, j, len(list), "query %q produced an id outside the list or out of order", q)
			j++
		}
	}
}

func TestSetFilteredProducts_AfterFilterEqualsList(t *testing.T) {
	s := Initial()
	s.ProductList = sampleProducts()
	filtered := FilterByTitle(s.ProductList, "mens")
	s = Reduce(s, SetFilteredProducts{Products: filtered})
	assert.Equal(t, filtered, s.FilteredProducts)
}
