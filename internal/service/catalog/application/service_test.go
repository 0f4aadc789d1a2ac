package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"freshcart/internal/service/catalog/domain"
)

// fakeItemRepo mirrors the real repository's write semantics: Save is a
// full-row upsert, Update writes only the editable columns, stock moves
// exclusively through the conditional Decrement/Increment operations.
type fakeItemRepo struct {
	mu     sync.Mutex
	items  map[string]*domain.Item
	onFind func() // runs after a FindByID read returns, before the caller continues
}

func newFakeItemRepo(items ...*domain.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[string]*domain.Item)}
	for _, item := range items {
		cp := *item
		r.items[item.ID] = &cp
	}
	return r
}

func (r *fakeItemRepo) Save(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = "generated-id"
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return nil
	}
	// explicit column list, stock untouched
	stored.Name = item.Name
	stored.Category = item.Category
	stored.Price = item.Price
	stored.Description = item.Description
	stored.ImageURL = item.ImageURL
	stored.UpdatedAt = item.UpdatedAt
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	item, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrItemNotFound
	}
	cp := *item
	r.mu.Unlock()
	if r.onFind != nil {
		r.onFind()
	}
	return &cp, nil
}

func (r *fakeItemRepo) FindAll(_ context.Context, category domain.Category) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*domain.Item
	for _, item := range r.items {
		if !item.Active {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		cp := *item
		items = append(items, &cp)
	}
	return items, nil
}

func (r *fakeItemRepo) DecrementStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	if !item.Active {
		return domain.ErrItemInactive
	}
	if item.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	item.Stock -= quantity
	return nil
}

func (r *fakeItemRepo) IncrementStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Stock += quantity
	return nil
}

func (r *fakeItemRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Active = false
	return nil
}

func (r *fakeItemRepo) stockOf(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Stock
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func appleItem() *domain.Item {
	return &domain.Item{
		ID: "apple", Name: "Fresh Apple", Category: domain.CategoryFruit,
		Price: 2.50, Stock: 50, Description: "Crispy and sweet red apples", Active: true,
	}
}

func newCatalogService(repo *fakeItemRepo) *CatalogService {
	return NewCatalogService(repo, otel.Tracer("test"))
}

func TestUpdateItemDoesNotResurrectSoldStock(t *testing.T) {
	repo := newFakeItemRepo(appleItem())
	svc := newCatalogService(repo)

	// an order commits its conditional decrement between the admin's
	// read and write; the edit must not restore the sold units
	var once sync.Once
	repo.onFind = func() {
		once.Do(func() {
			require.NoError(t, repo.DecrementStock(context.Background(), "apple", 3))
		})
	}

	_, err := svc.UpdateItem(context.Background(), "apple", &UpsertItemRequest{Name: "Green Apple"})
	require.NoError(t, err)

	assert.Equal(t, 47, repo.stockOf("apple"))
}

func TestUpdateItemKeepsOmittedFields(t *testing.T) {
	repo := newFakeItemRepo(appleItem())
	svc := newCatalogService(repo)

	// rename-only request: omitted price/description must survive
	resp, err := svc.UpdateItem(context.Background(), "apple", &UpsertItemRequest{Name: "Green Apple"})
	require.NoError(t, err)
	assert.Equal(t, "Green Apple", resp.Name)
	assert.InDelta(t, 2.50, resp.Price, 0.001)
	assert.Equal(t, "Crispy and sweet red apples", resp.Description)

	stored, err := svc.GetItem(context.Background(), "apple")
	require.NoError(t, err)
	assert.InDelta(t, 2.50, stored.Price, 0.001)
	assert.Equal(t, "Crispy and sweet red apples", stored.Description)
}

func TestUpdateItemAppliesProvidedFields(t *testing.T) {
	repo := newFakeItemRepo(appleItem())
	svc := newCatalogService(repo)

	resp, err := svc.UpdateItem(context.Background(), "apple", &UpsertItemRequest{
		Price:       floatPtr(3.25),
		Description: strPtr(""),
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.25, resp.Price, 0.001)
	assert.Equal(t, "", resp.Description) // explicit empty string clears it

	_, err = svc.UpdateItem(context.Background(), "apple", &UpsertItemRequest{Price: floatPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestCreateItemRequiresPrice(t *testing.T) {
	repo := newFakeItemRepo()
	svc := newCatalogService(repo)

	_, err := svc.CreateItem(context.Background(), &UpsertItemRequest{
		Name: "Mango", Category: "Fruit", Stock: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	resp, err := svc.CreateItem(context.Background(), &UpsertItemRequest{
		Name: "Mango", Category: "Fruit", Price: floatPtr(4.20), Stock: 10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.20, resp.Price, 0.001)
}

func TestRestockRejectsNonPositiveQuantity(t *testing.T) {
	repo := newFakeItemRepo(appleItem())
	svc := newCatalogService(repo)

	assert.ErrorIs(t, svc.Restock(context.Background(), "apple", 0), domain.ErrInvalidItem)
	assert.ErrorIs(t, svc.Restock(context.Background(), "apple", -5), domain.ErrInvalidItem)

	require.NoError(t, svc.Restock(context.Background(), "apple", 20))
	assert.Equal(t, 70, repo.stockOf("apple"))
}
