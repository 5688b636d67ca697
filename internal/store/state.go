package store

import (
	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/cart"
	"github.com/five82/storefront/internal/product"
)

// Slice names as they appear in RootState's JSON and in the persisted blob.
const (
	SliceCart    = "cart"
	SliceProduct = "product"
)

// RootState is everything the store owns.
type RootState struct {
	Cart    cart.State    `json:"cart"`
	Product product.State `json:"product"`
}

// InitialState returns the state a fresh store starts from.
func InitialState() RootState {
	return RootState{
		Cart:    cart.Initial(),
		Product: product.Initial(),
	}
}

// Reducer computes the next root state. It must be pure and must not call
// back into the store.
type Reducer func(s RootState, a action.Action) RootState

// TypeRehydrate is the action that overlays persisted slices at boot.
const TypeRehydrate = "persist/REHYDRATE"

// Rehydrate replaces each non-nil slice wholesale.
type Rehydrate struct {
	Cart    *cart.State
	Product *product.State
}

func (Rehydrate) Type() string { return TypeRehydrate }

// RootReducer routes every action to both slice reducers and applies
// Rehydrate.
func RootReducer(s RootState, a action.Action) RootState {
	if r, ok := a.(Rehydrate); ok {
		if r.Cart != nil {
			s.Cart = r.Cart.Clone()
		}
		if r.Product != nil {
			s.Product = *r.Product
		}
		return s
	}
	return RootState{
		Cart:    cart.Reduce(s.Cart, a),
		Product: product.Reduce(s.Product, a),
	}
}
