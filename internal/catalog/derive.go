package catalog

import (
	"slices"
	"strings"

	"github.com/five82/showroom/internal/fakestore"
)

// SortOrder selects how the result list is ordered by price.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortPriceAsc
	SortPriceDesc
)

// ParseSortOrder maps a stored or user supplied name to a SortOrder.
// Unrecognized values mean no ordering.
func ParseSortOrder(value string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ascendingprice", "lowtohigh", "asc":
		return SortPriceAsc
	case "descendingprice", "hightolow", "desc":
		return SortPriceDesc
	default:
		return SortNone
	}
}

// String returns the canonical name accepted by ParseSortOrder.
func (o SortOrder) String() string {
	switch o {
	case SortPriceAsc:
		return "ascendingPrice"
	case SortPriceDesc:
		return "descendingPrice"
	default:
		return "none"
	}
}

// Label is the human-readable name shown in the command bar.
func (o SortOrder) Label() string {
	switch o {
	case SortPriceAsc:
		return "Low to High"
	case SortPriceDesc:
		return "High to Low"
	default:
		return "Sort by Price"
	}
}

// Next cycles none → ascending → descending → none.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortNone:
		return SortPriceAsc
	case SortPriceAsc:
		return SortPriceDesc
	default:
		return SortNone
	}
}

// Filter holds the dashboard inputs that shape the result list.
type Filter struct {
	SearchText    string
	Category      string // empty matches every category
	FavoritesOnly bool
	Sort          SortOrder
}

// Membership answers favorite lookups. *favorites.Store satisfies it.
type Membership interface {
	Has(id int64) bool
}

// Derive filters snapshot by f and then orders it. The result is a fresh
// slice; snapshot is not modified. Equal prices keep snapshot order.
func Derive(snapshot []fakestore.Product, f Filter, favs Membership) []fakestore.Product {
	needle := strings.ToLower(f.SearchText)
	out := make([]fakestore.Product, 0, len(snapshot))
	for _, p := range snapshot {
		if !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.FavoritesOnly && (favs == nil || !favs.Has(p.ID)) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b fakestore.Product) int {
			return comparePrice(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b fakestore.Product) int {
			return comparePrice(b.Price, a.Price)
		})
	}
	return out
}

func comparePrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Categories returns the distinct non-empty category labels of snapshot in
// order of first appearance.
func Categories(snapshot []fakestore.Product) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range snapshot {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
