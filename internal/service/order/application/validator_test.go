package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "freshcart/internal/service/catalog/domain"
	"freshcart/internal/service/order/domain"
)

// fakeCatalog is an in-memory catalog with injectable per-item errors.
// Shared with the service tests in this package.
type fakeCatalog struct {
	mu    sync.Mutex
	items map[string]*catalog.Item
	errs  map[string]error
}

func newFakeCatalog(items ...*catalog.Item) *fakeCatalog {
	f := &fakeCatalog{
		items: make(map[string]*catalog.Item),
		errs:  make(map[string]error),
	}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return f
}

func (f *fakeCatalog) GetItem(_ context.Context, id string) (*catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

// reserve applies the same all-or-nothing conditional decrement the real
// repository runs inside its transaction.
func (f *fakeCatalog) reserve(lines []domain.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range lines {
		item, ok := f.items[l.ItemID]
		if !ok || !item.Active || item.Stock < l.Quantity {
			return fmt.Errorf("item %s: %w", l.ItemID, domain.ErrStockConflict)
		}
	}
	for _, l := range lines {
		f.items[l.ItemID].Stock -= l.Quantity
	}
	return nil
}

func (f *fakeCatalog) stockOf(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Stock
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cat := newFakeCatalog(
		&catalog.Item{ID: "apple", Name: "Fresh Apple", Price: 2.50, Stock: 50, Active: true},
		&catalog.Item{ID: "banana", Name: "Ripe Banana", Price: 1.20, Stock: 2, Active: true},
		&catalog.Item{ID: "carrot", Name: "Organic Carrot", Price: 1.80, Stock: 25, Active: false},
	)
	v := NewStockValidator(cat)

	result, err := v.Validate(context.Background(), []CartLine{
		{ItemID: "apple", Quantity: 3},
		{ItemID: "banana", Quantity: 5},
		{ItemID: "carrot", Quantity: 1},
		{ItemID: "ghost", Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, result.AllAvailable())

	// every problem is reported, sorted by item id
	require.Len(t, result.Unsatisfiable, 3)
	assert.Equal(t, domain.UnsatisfiableLine{ItemID: "banana", Reason: domain.ReasonInsufficientStock, Requested: 5, Available: 2}, result.Unsatisfiable[0])
	assert.Equal(t, domain.UnsatisfiableLine{ItemID: "carrot", Reason: domain.ReasonInactive, Requested: 1, Available: 25}, result.Unsatisfiable[1])
	assert.Equal(t, domain.UnsatisfiableLine{ItemID: "ghost", Reason: domain.ReasonNotFound, Requested: 1}, result.Unsatisfiable[2])

	// satisfiable lines still got their snapshot captured
	require.Contains(t, result.Items, "apple")
	assert.Equal(t, 2.50, result.Items["apple"].Price)
}

func TestValidateAllAvailable(t *testing.T) {
	cat := newFakeCatalog(
		&catalog.Item{ID: "apple", Price: 2.50, Stock: 50, Active: true},
	)
	v := NewStockValidator(cat)

	result, err := v.Validate(context.Background(), []CartLine{{ItemID: "apple", Quantity: 50}})
	require.NoError(t, err)
	assert.True(t, result.AllAvailable())
	assert.Empty(t, result.Unsatisfiable)
}

func TestValidatePropagatesInfrastructureErrors(t *testing.T) {
	cat := newFakeCatalog(&catalog.Item{ID: "apple", Stock: 5, Active: true})
	boom := errors.New("connection refused")
	cat.errs["banana"] = boom
	v := NewStockValidator(cat)

	_, err := v.Validate(context.Background(), []CartLine{
		{ItemID: "apple", Quantity: 1},
		{ItemID: "banana", Quantity: 1},
	})
	// a failing catalog lookup must not be misreported as not_found
	assert.ErrorIs(t, err, boom)
}
