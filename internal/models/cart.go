package models

// Cart is a single line associating one product with a requested quantity.
// There is no multi-line cart grouping; each row is independent.
type Cart struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartWithProduct is a cart row joined with the attributes of its product,
// used for display listings.
type CartWithProduct struct {
	Cart
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	ProductPrice       int64  `json:"product_price"`
	ProductCategory    string `json:"product_category"`
	ProductStock       int    `json:"product_stock"`
}
