package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherstore/storefront/internal/cache"
	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

type mockProductRepo struct {
	products map[string]domain.Product
}

func (m *mockProductRepo) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := p
	return &cp, nil
}

func (m *mockProductRepo) ListProducts(_ context.Context) ([]*domain.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) CreateProduct(_ context.Context, _ *domain.Product) error { return nil }
func (m *mockProductRepo) UpdateProduct(_ context.Context, _ *domain.Product) error { return nil }
func (m *mockProductRepo) DeleteProduct(_ context.Context, _ string) error          { return nil }

type mockCache struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	getErr error
	setErr error
	gets   int
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	cp := *c
	cp.Items = append([]domain.CartLine(nil), c.Items...)
	return &cp, nil
}

func (m *mockCache) Set(_ context.Context, userID string, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	cp := *c
	cp.Items = append([]domain.CartLine(nil), c.Items...)
	m.carts[userID] = &cp
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func newCartService() (*Service, *mockProductRepo, *mockCache) {
	products := &mockProductRepo{products: map[string]domain.Product{
		"1": {ID: "1", Name: "Aether Wireless Headphones", Price: 299.99, Stock: 15},
		"2": {ID: "2", Name: "Lumina Smart Watch", Price: 199.99, Stock: 25},
	}}
	mc := newMockCache()
	return NewService(products, mc, nil), products, mc
}

func TestGetCart_EmptyOnMiss(t *testing.T) {
	svc, _, _ := newCartService()

	c, err := svc.GetCart(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", c.UserID)
	assert.Empty(t, c.Items)
}

func TestAddItem_CapturesCatalogPrice(t *testing.T) {
	svc, _, _ := newCartService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "user123", "1", 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Aether Wireless Headphones", c.Items[0].Name)
	assert.InDelta(t, 299.99, c.Items[0].Price, 1e-9)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	svc, _, _ := newCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user123", "1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user123", "2", 1)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, "user123", "1", 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestAddItem_Invalid(t *testing.T) {
	svc, _, _ := newCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user123", "1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, "user123", "ghost", 1)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc, _, _ := newCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user123", "1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user123", "2", 1)
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, "user123", "1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "2", c.Items[0].ProductID)

	_, err = svc.RemoveItem(ctx, "user123", "1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestClearCart(t *testing.T) {
	svc, _, mc := newCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user123", "1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "user123"))
	assert.NotContains(t, mc.carts, "user123")

	c, err := svc.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestGetCart_CacheErrorFallsBackToEmpty(t *testing.T) {
	svc, _, mc := newCartService()
	mc.getErr = assert.AnError

	c, err := svc.GetCart(context.Background(), "user123")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestAddItem_SetFailureSurfaces(t *testing.T) {
	svc, _, mc := newCartService()
	mc.setErr = assert.AnError

	_, err := svc.AddItem(context.Background(), "user123", "1", 1)
	assert.ErrorIs(t, err, assert.AnError)
}
