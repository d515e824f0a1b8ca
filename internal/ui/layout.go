package ui

import (
	"errors"
	"time"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which rows drop the category column.
	LayoutCompactWidth = 90

	// LayoutWideWidth is the minimum width to show rating stars in rows.
	LayoutWideWidth = 120
)

// Row layout widths, in cells.
const (
	priceColumnWidth    = 10
	categoryColumnWidth = 20
	ratingColumnWidth   = 7
	markerColumnWidth   = 3
)

// headerLines is the number of lines used by the header and command bar.
const headerLines = 2

// DefaultFetchTimeout bounds a single catalog or detail request.
const DefaultFetchTimeout = 15 * time.Second

var errNoSource = errors.New("no product source configured")
