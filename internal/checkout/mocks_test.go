package checkout

import (
	"context"
	"sync"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

// mockProductRepo implements repository.ProductRepository for testing
type mockProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func newMockProductRepo(products ...domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[string]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := p
	return &cp, nil
}

func (m *mockProductRepo) ListProducts(context.Context) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Product
	for _, p := range m.products {
		cp := p
		result = append(result, &cp)
	}
	return result, nil
}

func (m *mockProductRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepo) UpdateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepo) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

// mockUserRepo implements repository.UserRepository for testing
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	adjustErr error // injected failure for AdjustLoyaltyPoints
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		cp := u
		m.users[u.ID] = &cp
	}
	return m
}

func (m *mockUserRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) AdjustLoyaltyPoints(_ context.Context, id string, delta int) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adjustErr != nil {
		return nil, m.adjustErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if u.LoyaltyPoints+delta < 0 {
		return nil, repository.ErrNegativeBalance
	}
	u.LoyaltyPoints += delta
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) balance(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].LoyaltyPoints
}

// mockOrderRepo implements repository.OrderRepository for testing
type mockOrderRepo struct {
	mu     sync.Mutex
	orders []*domain.Order

	createErr error // injected failure for CreateOrder
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *order
	m.orders = append(m.orders, &cp)
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) ListOrders(context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		cp := *o
		result = append(result, &cp)
	}
	return result, nil
}

func (m *mockOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) Close() error { return nil }

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// mockConfigStore implements repository.ConfigStore for testing
type mockConfigStore struct {
	mu  sync.RWMutex
	cfg domain.StorefrontConfig
}

func (m *mockConfigStore) Snapshot(context.Context) (domain.StorefrontConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg, nil
}

func (m *mockConfigStore) Update(_ context.Context, cfg domain.StorefrontConfig) (domain.StorefrontConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return m.cfg, nil
}

// mockPublisher records lifecycle events
type mockPublisher struct {
	mu      sync.Mutex
	created []string
	changed []string
}

func (m *mockPublisher) OrderCreated(_ context.Context, order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, order.ID)
}

func (m *mockPublisher) OrderStatusChanged(_ context.Context, order *domain.Order, _ domain.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, order.ID)
}
