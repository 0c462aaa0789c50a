package cart

import "github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"

// ProductRef is what the storefront knows about a product when it is put in the cart.
// Prices are snapshotted here and never re-fetched.
type ProductRef struct {
	ProductID     int64  `json:"productId"`
	ProductSlug   string `json:"productSlug"`
	ProductName   string `json:"productName"`
	ProductImage  string `json:"productImage"`
	PriceEurCents int64  `json:"priceEurCents"`
	PriceIlsCents int64  `json:"priceIlsCents"`
}

type LineItem struct {
	ProductRef
	Quantity int `json:"quantity"`
}

// State is everything a storefront session persists.
type State struct {
	Locale i18n.Locale `json:"locale"`
	Cart   []LineItem  `json:"cart"`
}

func NewState() State {
	return State{Locale: i18n.Default, Cart: []LineItem{}}
}
