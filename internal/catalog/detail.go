package catalog

import (
	"context"
	"errors"

	"github.com/five82/showroom/internal/fakestore"
)

// User-facing messages for a detail page that could not be shown.
const (
	MessageNotFound   = "We couldn't find that product."
	MessageLoadFailed = "Failed to fetch product details."
)

// Detail is the outcome of a single product lookup.
type Detail struct {
	ID      int64
	Product *fakestore.Product
	Err     error
	Message string
}

// Found reports whether the product is available for display.
func (d Detail) Found() bool {
	return d.Err == nil && d.Product != nil
}

// FetchDetail requests one product from src. Failures are translated into a
// user-facing Message; there is no earlier state to fall back to.
func FetchDetail(ctx context.Context, src fakestore.Source, id int64) Detail {
	d := Detail{ID: id}
	if src == nil {
		d.Err = errors.New("product source is nil")
		d.Message = MessageLoadFailed
		return d
	}

	p, err := src.FetchProduct(ctx, id)
	switch {
	case errors.Is(err, fakestore.ErrNotFound):
		d.Err = err
		d.Message = MessageNotFound
	case err != nil:
		d.Err = err
		d.Message = MessageLoadFailed
	case p == nil:
		d.Err = fakestore.ErrNotFound
		d.Message = MessageNotFound
	default:
		d.Product = p
	}
	return d
}
