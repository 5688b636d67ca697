// Package product holds the catalog slice: the fetched product list, the
// subset the catalog screen currently shows, and the loading flag of the
// list request.
//
// Fetch actions never touch FilteredProducts. Whoever renders the catalog
// owns the filter and must re-apply it (see FilterByTitle) whenever
// ProductList changes; otherwise a rejected fetch after a fulfilled one
// leaves stale entries in FilteredProducts.
package product

import (
	"strings"

	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/async"
	"github.com/five82/storefront/internal/catalog"
)

// Action types handled by Reduce.
const (
	TypeSetFilteredProducts = "product/setFilteredProducts"

	// ListPrefix is the request prefix of the catalog fetch.
	ListPrefix        = "product/list"
	TypeListPending   = ListPrefix + async.SuffixPending
	TypeListFulfilled = ListPrefix + async.SuffixFulfilled
	TypeListRejected  = ListPrefix + async.SuffixRejected
)

// State is the non-persisted catalog slice.
type State struct {
	IsLoading        bool              `json:"isLoading"`
	ProductList      []catalog.Product `json:"productList"`
	FilteredProducts []catalog.Product `json:"filteredProducts"`
}

// Initial returns the empty catalog.
func Initial() State {
	return State{
		ProductList:      []catalog.Product{},
		FilteredProducts: []catalog.Product{},
	}
}

// SetFilteredProducts replaces FilteredProducts wholesale. The reducer
// does not check that Products is a subsequence of ProductList.
type SetFilteredProducts struct {
	Products []catalog.Product
}

func (SetFilteredProducts) Type() string { return TypeSetFilteredProducts }

// Reduce applies a product action. Unknown actions, and lifecycle actions
// of other requests, return s unchanged.
func Reduce(s State, a action.Action) State {
	switch a := a.(type) {
	case SetFilteredProducts:
		s.FilteredProducts = catalog.CloneProducts(a.Products)
		return s
	case async.Pending:
		if a.Prefix != ListPrefix {
			return s
		}
		s.IsLoading = true
		return s
	case async.Fulfilled[[]catalog.Product]:
		if a.Prefix != ListPrefix {
			return s
		}
		s.IsLoading = false
		s.ProductList = catalog.CloneProducts(a.Payload)
		return s
	case async.Rejected:
		if a.Prefix != ListPrefix {
			return s
		}
		s.IsLoading = false
		s.ProductList = []catalog.Product{}
		return s
	}
	return s
}

// FilterByTitle returns the products whose title contains query, ignoring
// case and surrounding whitespace. A blank query matches everything. The
// result preserves the order of list and never aliases it.
func FilterByTitle(list []catalog.Product, query string) []catalog.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return catalog.CloneProducts(list)
	}
	out := make([]catalog.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}
