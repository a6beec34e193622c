package bookshop

// CartItem represents one line of the shopping cart. A cart holds
// at most one line per isbn13, adding the same book again merges
// into the existing line by summing quantities.
type CartItem struct {
	ISBN13 string `json:"isbn13"`
	Title  string `json:"title"`
	Price  string `json:"price"`
	Image  string `json:"image"`
	Qty    int    `json:"qty"`
}
