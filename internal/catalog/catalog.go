package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/showroom/internal/fakestore"
)

// State is the lifecycle of the product list.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Options configure a Catalog.
type Options struct {
	Favorites Membership
	// RetainOnError keeps deriving results from the last good snapshot after
	// a failed load instead of showing an empty list.
	RetainOnError bool
	Logger        *zap.Logger
}

// Catalog owns the product snapshot and the filter inputs, and derives the
// visible list on demand.
type Catalog struct {
	mu            sync.RWMutex
	favorites     Membership
	retainOnError bool
	logger        *zap.Logger

	state      State
	snapshot   []fakestore.Product
	categories []string
	filter     Filter
	lastError  error
	loadedAt   time.Time
	failures   int
}

// New returns an Idle catalog.
func New(opts Options) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		favorites:     opts.Favorites,
		retainOnError: opts.RetainOnError,
		logger:        logger,
	}
}

// BeginLoad moves the catalog to Loading. Loads are not deduplicated; callers
// keep a single request in flight.
func (c *Catalog) BeginLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Loading
	c.lastError = nil
}

// FinishLoad applies the outcome of a fetch. On error the snapshot is kept in
// memory but the catalog enters Error.
func (c *Catalog) FinishLoad(products []fakestore.Product, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = Error
		c.lastError = err
		c.failures++
		c.logger.Warn("catalog load failed", zap.Error(err), zap.Int("consecutive_failures", c.failures))
		return
	}

	c.snapshot = slices.Clone(products)
	c.categories = Categories(c.snapshot)
	c.state = Loaded
	c.lastError = nil
	c.loadedAt = time.Now()
	c.failures = 0
	c.logger.Info("catalog loaded", zap.Int("products", len(c.snapshot)), zap.Int("categories", len(c.categories)))
}

// Load fetches the product list from src and applies it.
func (c *Catalog) Load(ctx context.Context, src fakestore.Source) error {
	if src == nil {
		err := fmt.Errorf("product source is nil")
		c.BeginLoad()
		c.FinishLoad(nil, err)
		return err
	}
	c.BeginLoad()
	products, err := src.FetchProducts(ctx)
	c.FinishLoad(products, err)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	return nil
}

// SetSearchText sets the case-insensitive title filter.
func (c *Catalog) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SearchText = text
}

// SetCategory sets the exact category filter. Empty clears it.
func (c *Catalog) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Category = category
}

// SetSortOrder sets the price ordering.
func (c *Catalog) SetSortOrder(order SortOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch order {
	case SortPriceAsc, SortPriceDesc:
		c.filter.Sort = order
	default:
		c.filter.Sort = SortNone
	}
}

// SetShowFavoritesOnly restricts results to favorites.
func (c *Catalog) SetShowFavoritesOnly(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.FavoritesOnly = on
}

// CycleCategory steps the category filter through "all" and every known
// category. delta is +1 or -1.
func (c *Catalog) CycleCategory(delta int) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	options := append([]string{""}, c.visibleCategoriesLocked()...)
	idx := slices.Index(options, c.filter.Category)
	if idx < 0 {
		idx = 0
	}
	n := len(options)
	idx = ((idx+delta)%n + n) % n
	c.filter.Category = options[idx]
	return c.filter.Category
}

// CycleSortOrder advances to the next price ordering.
func (c *Catalog) CycleSortOrder() SortOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Sort = c.filter.Sort.Next()
	return c.filter.Sort
}

// State returns the current lifecycle state.
func (c *Catalog) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Filter returns the current inputs.
func (c *Catalog) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Snapshot returns a copy of the last successfully fetched product list.
func (c *Catalog) Snapshot() []fakestore.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.snapshot)
}

// Categories returns the distinct categories of the visible snapshot.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.visibleCategoriesLocked())
}

// Results derives the visible product list. It is recomputed on every call.
func (c *Catalog) Results() []fakestore.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resultsLocked()
}

// Lookup returns the snapshot record for id.
func (c *Catalog) Lookup(id int64) (fakestore.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := slices.IndexFunc(c.snapshot, func(p fakestore.Product) bool { return p.ID == id })
	if idx < 0 {
		return fakestore.Product{}, false
	}
	return c.snapshot[idx], true
}

func (c *Catalog) staleHidden() bool {
	return c.state == Error && !c.retainOnError
}

func (c *Catalog) visibleCategoriesLocked() []string {
	if c.staleHidden() {
		return nil
	}
	return c.categories
}

func (c *Catalog) resultsLocked() []fakestore.Product {
	if c.staleHidden() {
		return nil
	}
	return Derive(c.snapshot, c.filter, c.favorites)
}

// View is a point-in-time copy of everything the dashboard renders.
type View struct {
	State               State
	Results             []fakestore.Product
	Categories          []string
	Filter              Filter
	Total               int
	LastError           error
	LoadedAt            time.Time
	ConsecutiveFailures int
}

// View captures the catalog for rendering.
func (c *Catalog) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{
		State:               c.state,
		Results:             c.resultsLocked(),
		Categories:          slices.Clone(c.visibleCategoriesLocked()),
		Filter:              c.filter,
		Total:               len(c.snapshot),
		LastError:           c.lastError,
		LoadedAt:            c.loadedAt,
		ConsecutiveFailures: c.failures,
	}
}
