// internal/model/model.go
package model

import "strings"

// Rating is the remote API's review summary for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a single catalog record. Remote-sourced products come back from
// the store API; local products are created client-side and carry IsLocal so
// the merge layer knows which persistence path owns them.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
	IsLocal     bool    `json:"isLocal,omitempty"`
}

// HasDataImage reports whether the product image is an embedded data URI
// rather than a URL. Remote-origin products must use URL images.
func (p Product) HasDataImage() bool {
	return strings.HasPrefix(p.Image, "data:")
}

// CartItem is one cart line: a product reference and its quantity. The same
// shape is persisted locally and sent in the remote cart payload.
type CartItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Cart is a remote cart record.
type Cart struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"userId"`
	Products []CartItem `json:"products"`
	Date     string     `json:"date,omitempty"`
}

// User is the store account record. ID, username, email and password form the
// remote update payload.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
