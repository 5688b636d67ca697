package catalog

// Product mirrors one element of the GET /products payload. Products are
// created by decoding a response and never mutated afterwards.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// CloneProducts returns an independent copy of list. A nil or empty input
// yields an empty, non-nil slice so JSON encodes it as [].
func CloneProducts(list []Product) []Product {
	dup := make([]Product, len(list))
	copy(dup, list)
	return dup
}
