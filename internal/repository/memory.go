package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aetherstore/storefront/internal/domain"
)

// MemoryProductStore implements ProductRepository with in-memory storage.
// All methods copy on the way in and out so callers never share map-backed
// pointers.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[string]*domain.Product)}
}

func (s *MemoryProductStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryProductStore) ListProducts(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryProductStore) CreateProduct(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return ErrDuplicateProduct
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryProductStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return ErrProductNotFound
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryProductStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// MemoryUserStore implements UserRepository with in-memory storage.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string // lowercased email -> user id
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *MemoryUserStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	s.users[u.ID] = &cp
	s.byEmail[key] = u.ID
	return nil
}

func (s *MemoryUserStore) AdjustLoyaltyPoints(_ context.Context, id string, delta int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	if u.LoyaltyPoints+delta < 0 {
		return nil, ErrNegativeBalance
	}
	u.LoyaltyPoints += delta
	cp := *u
	return &cp, nil
}

// MemoryOrderStore implements OrderRepository with in-memory storage.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]*domain.Order)}
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = make([]domain.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (s *MemoryOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return ErrDuplicateOrder
	}
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *MemoryOrderStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (s *MemoryOrderStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, copyOrder(o))
	}
	sortOrdersNewestFirst(result)
	return result, nil
}

func (s *MemoryOrderStore) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, copyOrder(o))
		}
	}
	sortOrdersNewestFirst(result)
	return result, nil
}

func (s *MemoryOrderStore) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return copyOrder(o), nil
}

func (s *MemoryOrderStore) Close() error {
	return nil
}

func sortOrdersNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// MemoryConfigStore holds the storefront configuration behind a RWMutex so
// admin updates never tear an in-flight settlement's snapshot.
type MemoryConfigStore struct {
	mu  sync.RWMutex
	cfg domain.StorefrontConfig
}

func NewMemoryConfigStore(initial domain.StorefrontConfig) *MemoryConfigStore {
	return &MemoryConfigStore{cfg: initial}
}

func (s *MemoryConfigStore) Snapshot(_ context.Context) (domain.StorefrontConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

func (s *MemoryConfigStore) Update(_ context.Context, cfg domain.StorefrontConfig) (domain.StorefrontConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return s.cfg, nil
}
