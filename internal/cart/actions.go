package cart

import "github.com/five82/storefront/internal/catalog"

// Action types handled by Reduce.
const (
	TypeAddToCart      = "cart/addToCart"
	TypeUpdateQuantity = "cart/updateQuantity"
	TypeRemoveFromCart = "cart/removeFromCart"
	TypeClearCart      = "cart/clearCart"
)

// AddToCart adds one unit of Product.
type AddToCart struct {
	Product catalog.Product
}

func (AddToCart) Type() string { return TypeAddToCart }

// UpdateQuantity sets the quantity of the item with ID. Quantity <= 0
// removes the item.
type UpdateQuantity struct {
	ID       int64
	Quantity int
}

func (UpdateQuantity) Type() string { return TypeUpdateQuantity }

// RemoveFromCart drops the item with ID.
type RemoveFromCart struct {
	ID int64
}

func (RemoveFromCart) Type() string { return TypeRemoveFromCart }

// ClearCart empties the cart.
type ClearCart struct{}

func (ClearCart) Type() string { return TypeClearCart }

// AddItem builds an AddToCart from a cart line. The line's quantity is
// ignored: every dispatch adds exactly one unit.
func AddItem(item Item) AddToCart {
	return AddToCart{Product: item.Product}
}
