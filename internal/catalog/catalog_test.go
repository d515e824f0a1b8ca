package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/showroom/internal/fakestore"
	"github.com/five82/showroom/internal/favorites"
	"github.com/five82/showroom/internal/localstore"
)

type idSet map[int64]bool

func (s idSet) Has(id int64) bool { return s[id] }

type fakeSource struct {
	products []fakestore.Product
	byID     map[int64]fakestore.Product
	err      error
	calls    int
}

func (f *fakeSource) FetchProducts(context.Context) ([]fakestore.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) FetchProduct(_ context.Context, id int64) (*fakestore.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, fakestore.ErrNotFound
	}
	return &p, nil
}

func hatsAndShoes() []fakestore.Product {
	return []fakestore.Product{
		{ID: 1, Title: "Red Hat", Price: 10, Category: "A"},
		{ID: 2, Title: "Blue Hat", Price: 5, Category: "A"},
		{ID: 3, Title: "Red Shoe", Price: 20, Category: "B"},
	}
}

func ids(products []fakestore.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDerive_EndToEndScenarios(t *testing.T) {
	snapshot := hatsAndShoes()

	got := Derive(snapshot, Filter{SearchText: "Hat", Sort: SortPriceAsc}, nil)
	assert.Equal(t, []int64{2, 1}, ids(got))

	got = Derive(snapshot, Filter{Category: "B"}, nil)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestDerive_SearchIsCaseInsensitive(t *testing.T) {
	snapshot := []fakestore.Product{{ID: 1, Title: "Blue Shirt"}, {ID: 2, Title: "Green Hat"}}
	assert.Equal(t, []int64{1}, ids(Derive(snapshot, Filter{SearchText: "SHIRT"}, nil)))
}

func TestDerive_CategoryIsExactMatch(t *testing.T) {
	snapshot := []fakestore.Product{
		{ID: 1, Title: "Jacket", Category: "men's clothing"},
		{ID: 2, Title: "Dress", Category: "women's clothing"},
	}
	assert.Equal(t, []int64{1}, ids(Derive(snapshot, Filter{Category: "men's clothing"}, nil)))
}

func TestDerive_FavoritesOnly(t *testing.T) {
	var snapshot []fakestore.Product
	for id := int64(1); id <= 8; id++ {
		snapshot = append(snapshot, fakestore.Product{ID: id, Title: "Item"})
	}
	got := Derive(snapshot, Filter{FavoritesOnly: true}, idSet{3: true, 7: true})
	assert.Equal(t, []int64{3, 7}, ids(got))

	assert.Empty(t, Derive(snapshot, Filter{FavoritesOnly: true}, nil))
}

func TestDerive_StableSortBothDirections(t *testing.T) {
	snapshot := []fakestore.Product{
		{ID: 1, Title: "a", Price: 5},
		{ID: 2, Title: "b", Price: 9},
		{ID: 3, Title: "c", Price: 5},
		{ID: 4, Title: "d", Price: 1},
		{ID: 5, Title: "e", Price: 9},
	}
	assert.Equal(t, []int64{4, 1, 3, 2, 5}, ids(Derive(snapshot, Filter{Sort: SortPriceAsc}, nil)))
	assert.Equal(t, []int64{2, 5, 1, 3, 4}, ids(Derive(snapshot, Filter{Sort: SortPriceDesc}, nil)))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(Derive(snapshot, Filter{}, nil)))
}

func TestDerive_ResultIsSubsetOfSnapshot(t *testing.T) {
	snapshot := hatsAndShoes()
	filters := []Filter{
		{},
		{SearchText: "red"},
		{SearchText: "zzz"},
		{Category: "A", Sort: SortPriceDesc},
		{FavoritesOnly: true, Sort: SortPriceAsc},
		{SearchText: "e", Category: "B", Sort: SortOrder(42)},
	}
	favs := idSet{1: true, 3: true}
	inSnapshot := map[int64]bool{}
	for _, p := range snapshot {
		inSnapshot[p.ID] = true
	}

	for _, f := range filters {
		got := Derive(snapshot, f, favs)
		seen := map[int64]bool{}
		for _, p := range got {
			assert.True(t, inSnapshot[p.ID], "id %d not in snapshot", p.ID)
			assert.False(t, seen[p.ID], "id %d duplicated", p.ID)
			seen[p.ID] = true
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, ids(snapshot), "Derive must not reorder the snapshot")
}

func TestParseSortOrder(t *testing.T) {
	cases := map[string]SortOrder{
		"ascendingPrice":  SortPriceAsc,
		"lowToHigh":       SortPriceAsc,
		"descendingPrice": SortPriceDesc,
		"highToLow":       SortPriceDesc,
		"":                SortNone,
		"cheapest":        SortNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSortOrder(in), in)
	}
	assert.Equal(t, SortPriceAsc, ParseSortOrder(SortPriceAsc.String()))
}

func TestCategories_FirstAppearanceOrder(t *testing.T) {
	snapshot := append(hatsAndShoes(), fakestore.Product{ID: 4, Title: "x", Category: "A"}, fakestore.Product{ID: 5, Title: "y"})
	assert.Equal(t, []string{"A", "B"}, Categories(snapshot))
}

func TestCatalog_LoadTransitions(t *testing.T) {
	src := &fakeSource{products: hatsAndShoes()}
	c := New(Options{})
	assert.Equal(t, Idle, c.State())

	require.NoError(t, c.Load(context.Background(), src))
	assert.Equal(t, Loaded, c.State())
	assert.Equal(t, []string{"A", "B"}, c.Categories())
	assert.Equal(t, []int64{1, 2, 3}, ids(c.Results()))

	c.BeginLoad()
	assert.Equal(t, Loading, c.State())
	c.FinishLoad(hatsAndShoes()[:1], nil)
	assert.Equal(t, Loaded, c.State())
	assert.Equal(t, []int64{1}, ids(c.Results()))
}

func TestCatalog_LoadFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{products: hatsAndShoes()}
	c := New(Options{})
	require.NoError(t, c.Load(context.Background(), src))

	src.err = boom
	err := c.Load(context.Background(), src)
	require.ErrorIs(t, err, boom)

	view := c.View()
	assert.Equal(t, Error, view.State)
	assert.Empty(t, view.Results)
	assert.Empty(t, view.Categories)
	assert.ErrorIs(t, view.LastError, boom)
	assert.Equal(t, 1, view.ConsecutiveFailures)
	assert.Len(t, c.Snapshot(), 3, "snapshot stays in memory")

	src.err = nil
	require.NoError(t, c.Load(context.Background(), src))
	view = c.View()
	assert.Equal(t, Loaded, view.State)
	assert.Len(t, view.Results, 3)
	assert.Zero(t, view.ConsecutiveFailures)
	assert.NoError(t, view.LastError)
}

func TestCatalog_LoadFailureFromIdle(t *testing.T) {
	c := New(Options{})
	err := c.Load(context.Background(), &fakeSource{err: errors.New("offline")})
	require.Error(t, err)
	assert.Equal(t, Error, c.State())
	assert.Empty(t, c.Results())
}

func TestCatalog_RetainOnError(t *testing.T) {
	src := &fakeSource{products: hatsAndShoes()}
	c := New(Options{RetainOnError: true})
	require.NoError(t, c.Load(context.Background(), src))

	src.err = errors.New("boom")
	require.Error(t, c.Load(context.Background(), src))
	assert.Equal(t, Error, c.State())
	assert.Equal(t, []int64{1, 2, 3}, ids(c.Results()))
	assert.Equal(t, []string{"A", "B"}, c.Categories())
}

func TestCatalog_InputsAndRecompute(t *testing.T) {
	favs := favorites.Load(localstore.NewMemory(nil), nil)
	c := New(Options{Favorites: favs})
	c.FinishLoad(hatsAndShoes(), nil)

	c.SetSearchText("hat")
	c.SetSortOrder(SortPriceDesc)
	assert.Equal(t, []int64{1, 2}, ids(c.Results()))

	c.SetShowFavoritesOnly(true)
	assert.Empty(t, c.Results())
	favs.Toggle(2)
	assert.Equal(t, []int64{2}, ids(c.Results()), "favorites changes show up on next read")

	c.SetShowFavoritesOnly(false)
	c.SetSortOrder(SortOrder(99))
	assert.Equal(t, SortNone, c.Filter().Sort)
	assert.Equal(t, []int64{1, 2}, ids(c.Results()))
}

func TestCatalog_CycleCategoryAndSort(t *testing.T) {
	c := New(Options{})
	c.FinishLoad(hatsAndShoes(), nil)

	assert.Equal(t, "A", c.CycleCategory(1))
	assert.Equal(t, "B", c.CycleCategory(1))
	assert.Equal(t, "", c.CycleCategory(1))
	assert.Equal(t, "B", c.CycleCategory(-1))

	assert.Equal(t, SortPriceAsc, c.CycleSortOrder())
	assert.Equal(t, SortPriceDesc, c.CycleSortOrder())
	assert.Equal(t, SortNone, c.CycleSortOrder())
}

func TestCatalog_Lookup(t *testing.T) {
	c := New(Options{})
	c.FinishLoad(hatsAndShoes(), nil)

	p, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Red Shoe", p.Title)

	_, ok = c.Lookup(9)
	assert.False(t, ok)
}

func TestFetchDetail(t *testing.T) {
	products := hatsAndShoes()
	src := &fakeSource{byID: map[int64]fakestore.Product{3: products[2]}}

	d := FetchDetail(context.Background(), src, 3)
	require.True(t, d.Found())
	assert.Equal(t, "Red Shoe", d.Product.Title)

	d = FetchDetail(context.Background(), src, 8)
	assert.False(t, d.Found())
	assert.Equal(t, MessageNotFound, d.Message)

	src.err = errors.New("timeout")
	d = FetchDetail(context.Background(), src, 3)
	assert.False(t, d.Found())
	assert.Equal(t, MessageLoadFailed, d.Message)

	d = FetchDetail(context.Background(), nil, 3)
	assert.Equal(t, MessageLoadFailed, d.Message)
}
