package cart

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/aetherstore/storefront/internal/cache"
	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

// Service keeps per-user draft carts in the cart cache. The cache is the
// only store: carts are session state, not persisted records, and checkout
// ignores them entirely (the checkout request carries its own lines).
type Service struct {
	products repository.ProductRepository
	cache    cache.CartCache
	logger   *zap.Logger
	sfg      singleflight.Group // Prevents cache stampede
}

func NewService(products repository.ProductRepository, cartCache cache.CartCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: products,
		cache:    cartCache,
		logger:   logger,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight so concurrent reads for the same user share one
	// cache round trip.
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		c, err := s.cache.Get(ctx, userID)
		if err == nil {
			return c, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cart cache get failed", zap.String("user_id", userID), zap.Error(err))
		}

		now := time.Now()
		return &domain.Cart{
			UserID:    userID,
			Items:     nil,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem captures the product's current catalog price and name into the
// line, per cart semantics: the price a shopper saw when adding is the
// price the cart displays (checkout re-validates it anyway).
func (s *Service) AddItem(ctx context.Context, userID string, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		c.Items = append(c.Items, domain.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}
	c.UpdatedAt = time.Now()

	if err := s.cache.Set(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID string, productID string) (*domain.Cart, error) {
	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			if err := s.cache.Set(ctx, userID, c); err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	err := s.cache.Delete(ctx, userID)
	if err != nil {
		s.logger.Warn("cart cache delete failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not found in cart")
)
