package repository

import (
	"context"
	"errors"

	"github.com/aetherstore/storefront/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product with this id already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("user with this email already exists")
	ErrNegativeBalance  = errors.New("loyalty points balance would go negative")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateOrder   = errors.New("order with this id already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// ProductRepository is the catalog store. Read-only to checkout; mutated by
// admin handlers only.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error

	// AdjustLoyaltyPoints applies a signed delta to the user's balance and
	// returns the updated user. A delta that would take the balance below
	// zero fails with ErrNegativeBalance and leaves the balance unchanged.
	AdjustLoyaltyPoints(ctx context.Context, id string, delta int) (*domain.User, error)
}

// OrderRepository is append-only aside from status transitions.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Close() error
}

// ConfigStore holds the storefront shipping/tax/loyalty parameters.
// Snapshot returns a copy; callers hold it for the duration of one
// calculation and never see concurrent admin updates mid-flight.
type ConfigStore interface {
	Snapshot(ctx context.Context) (domain.StorefrontConfig, error)
	Update(ctx context.Context, cfg domain.StorefrontConfig) (domain.StorefrontConfig, error)
}
