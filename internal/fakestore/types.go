package fakestore

import (
	"fmt"
	"strings"
)

// Product mirrors one record of /products.
type Product struct {
	ID          int64   `json:"id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image" validate:"omitempty,uri"`
	Rating      Rating  `json:"rating"`
}

// Rating is the aggregate customer score of a product.
type Rating struct {
	Rate  float64 `json:"rate" validate:"gte=0,lte=5"`
	Count int     `json:"count" validate:"gte=0"`
}

// FormatPrice renders the price with two decimals and a dollar sign.
func (p Product) FormatPrice() string {
	return fmt.Sprintf("$%.2f", p.Price)
}

// Stars renders the rating as five filled or hollow stars, floored like the
// storefront does.
func (r Rating) Stars() string {
	filled := int(r.Rate)
	filled = max(0, min(filled, 5))
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}
