// Package cart holds the shopping-cart slice: line items plus the
// total quantity and total amount derived from them.
//
// Reduce is pure. It never writes through its input's Items slice; every
// change produces a fresh slice, so a State handed out earlier stays valid.
// Aggregates are updated incrementally per action. When the cart empties,
// TotalAmount is reset to exactly zero so float drift cannot outlive the
// items that produced it.
package cart

import (
	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/catalog"
)

// Reduce applies a cart action. Unknown actions return s unchanged.
func Reduce(s State, a action.Action) State {
	switch a := a.(type) {
	case AddToCart:
		return add(s, a.Product)
	case UpdateQuantity:
		return updateQuantity(s, a.ID, a.Quantity)
	case RemoveFromCart:
		return remove(s, a.ID)
	case ClearCart:
		return Initial()
	}
	return s
}

func add(s State, p catalog.Product) State {
	idx := s.Find(p.ID)
	next := s.Clone()
	if idx < 0 {
		next.Items = append(next.Items, Item{Product: p, Quantity: 1})
	} else {
		next.Items[idx].Quantity++
	}
	next.TotalQuantity++
	next.TotalAmount += p.Price
	return next
}

func updateQuantity(s State, id int64, quantity int) State {
	idx := s.Find(id)
	if idx < 0 {
		return s
	}
	if quantity <= 0 {
		return removeAt(s, idx)
	}
	existing := s.Items[idx]
	diff := quantity - existing.Quantity
	if diff == 0 {
		return s
	}
	next := s.Clone()
	next.Items[idx].Quantity = quantity
	next.TotalQuantity += diff
	next.TotalAmount += existing.Price * float64(diff)
	return next
}

func remove(s State, id int64) State {
	idx := s.Find(id)
	if idx < 0 {
		return s
	}
	return removeAt(s, idx)
}

func removeAt(s State, idx int) State {
	existing := s.Items[idx]
	items := make([]Item, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)

	next := State{
		Items:         items,
		TotalQuantity: s.TotalQuantity - existing.Quantity,
		TotalAmount:   s.TotalAmount - existing.Price*float64(existing.Quantity),
	}
	if len(next.Items) == 0 {
		next.TotalAmount = 0
	}
	return next
}
