package cart

import (
	"fmt"
	"math"

	"github.com/five82/storefront/internal/catalog"
)

// Item is a product line in the cart. An item exists iff Quantity >= 1.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// State is the persisted cart slice. TotalQuantity and TotalAmount are
// maintained incrementally by Reduce and always agree with Items.
type State struct {
	Items         []Item  `json:"items"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// Initial returns the empty cart.
func Initial() State {
	return State{Items: []Item{}}
}

// Find returns the index of the item with id, or -1.
func (s State) Find(id int64) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a State that shares nothing with s.
func (s State) Clone() State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// InvariantViolation reports a cart whose line items disagree with its
// aggregates or with the item rules.
type InvariantViolation struct {
	Rule   string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("cart invariant %s violated: %s", e.Rule, e.Detail)
}

// amountTolerance bounds accumulated float drift in TotalAmount relative
// to the recomputed sum.
const amountTolerance = 1e-9

// Validate checks the cart invariants and returns the first violation.
func (s State) Validate() error {
	seen := make(map[int64]struct{}, len(s.Items))
	quantity := 0
	amount := 0.0
	for _, item := range s.Items {
		if _, dup := seen[item.ID]; dup {
			return &InvariantViolation{Rule: "unique-id", Detail: fmt.Sprintf("id %d appears twice", item.ID)}
		}
		seen[item.ID] = struct{}{}
		if item.Quantity < 1 {
			return &InvariantViolation{Rule: "positive-quantity", Detail: fmt.Sprintf("id %d has quantity %d", item.ID, item.Quantity)}
		}
		quantity += item.Quantity
		amount += float64(item.Quantity) * item.Price
	}
	if quantity != s.TotalQuantity {
		return &InvariantViolation{Rule: "total-quantity", Detail: fmt.Sprintf("sum %d, stored %d", quantity, s.TotalQuantity)}
	}
	scale := math.Max(1, math.Abs(amount))
	if math.Abs(amount-s.TotalAmount) > amountTolerance*scale*float64(len(s.Items)+1) {
		return &InvariantViolation{Rule: "total-amount", Detail: fmt.Sprintf("sum %v, stored %v", amount, s.TotalAmount)}
	}
	return nil
}
