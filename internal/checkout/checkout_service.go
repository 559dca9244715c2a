package checkout

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

// EventPublisher receives order lifecycle notifications. Publishing is
// best-effort; the service never fails a checkout over it.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus)
}

// FinalizeOrderRequest carries everything the settlement core needs. Any
// monetary totals a client sends alongside these fields are ignored and
// recomputed server-side.
type FinalizeOrderRequest struct {
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []domain.CartLine
	PointsToRedeem  int
	ShippingMethod  domain.ShippingMethod
	PaymentMethod   domain.PaymentMethod
}

const lockStripes = 64

// Service is the settlement core: it prices carts, moves loyalty balances,
// creates orders, and drives order status transitions.
type Service struct {
	products repository.ProductRepository
	users    repository.UserRepository
	orders   repository.OrderRepository
	config   repository.ConfigStore
	events   EventPublisher
	logger   *zap.Logger

	// Per-customer stripes serialize the read-balance / settle /
	// write-balance critical section so two concurrent checkouts by the
	// same customer cannot both spend the same points.
	locks [lockStripes]sync.Mutex
}

func NewService(
	products repository.ProductRepository,
	users repository.UserRepository,
	orders repository.OrderRepository,
	config repository.ConfigStore,
	events EventPublisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: products,
		users:    users,
		orders:   orders,
		config:   config,
		events:   events,
		logger:   logger,
	}
}

func (s *Service) customerLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}

// FinalizeOrder validates the cart, prices it against a config snapshot,
// applies the loyalty redemption/earning to the customer's balance, and
// persists the resulting order. Returns the created order and the updated
// user (nil for guest checkouts).
func (s *Service) FinalizeOrder(ctx context.Context, req FinalizeOrderRequest) (*domain.Order, *domain.User, error) {
	cfg, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("config snapshot: %w", err)
	}

	items, err := s.validate(ctx, cfg, &req)
	if err != nil {
		return nil, nil, err
	}

	// Unknown customer id means guest checkout, not a failed order.
	var user *domain.User
	if req.UserID != "" {
		user, err = s.users.GetUser(ctx, req.UserID)
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Info("unknown customer id, proceeding as guest",
				zap.String("user_id", req.UserID))
			user = nil
		} else if err != nil {
			return nil, nil, fmt.Errorf("load customer: %w", err)
		}
	}

	if user == nil {
		quote := settle(cfg, items, req.ShippingMethod, true, 0, req.PointsToRedeem)
		order, err := s.createOrder(ctx, &req, items, quote)
		if err != nil {
			return nil, nil, err
		}
		return order, nil, nil
	}

	// From here on the customer's balance is involved: serialize per
	// customer so the balance read and both mutations act as one unit.
	lock := s.customerLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; the earlier read may be stale.
	user, err = s.users.GetUser(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load customer: %w", err)
	}

	quote := settle(cfg, items, req.ShippingMethod, false, user.LoyaltyPoints, req.PointsToRedeem)

	if quote.RedemptionSkipped {
		// Observed storefront policy: over-redemption is silently skipped,
		// not rejected. Worth surfacing in logs all the same.
		s.logger.Warn("redemption exceeds balance, skipping",
			zap.String("user_id", user.ID),
			zap.Int("requested_points", req.PointsToRedeem),
			zap.Int("balance", user.LoyaltyPoints))
	}

	if quote.PointsUsed > 0 {
		user, err = s.users.AdjustLoyaltyPoints(ctx, user.ID, -quote.PointsUsed)
		if err != nil {
			return nil, nil, fmt.Errorf("redeem points: %w", err)
		}
	}

	order, err := s.createOrder(ctx, &req, items, quote)
	if err != nil {
		// Roll the redemption back so a failed persist cannot burn points.
		if quote.PointsUsed > 0 {
			if _, e2 := s.users.AdjustLoyaltyPoints(ctx, user.ID, quote.PointsUsed); e2 != nil {
				s.logger.Error("failed to refund points after order persist failure",
					zap.String("user_id", user.ID),
					zap.Int("points", quote.PointsUsed),
					zap.Error(e2))
			}
		}
		return nil, nil, err
	}

	if quote.PointsEarned > 0 {
		user, err = s.users.AdjustLoyaltyPoints(ctx, user.ID, quote.PointsEarned)
		if err != nil {
			// The order exists; earning failure leaves the ledger ahead of
			// the balance, which reconciliation will flag.
			s.logger.Error("failed to credit earned points",
				zap.String("user_id", user.ID),
				zap.String("order_id", order.ID),
				zap.Int("points", quote.PointsEarned),
				zap.Error(err))
		}
	}

	return order, user, nil
}

func (s *Service) validate(ctx context.Context, cfg domain.StorefrontConfig, req *FinalizeOrderRequest) ([]domain.OrderItem, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, ErrMissingCustomerInfo
	}
	if req.PointsToRedeem < 0 {
		return nil, ErrNegativeRedemption
	}

	switch req.ShippingMethod {
	case domain.ShippingPickup:
	case domain.ShippingDelivery:
		if req.ShippingAddress == "" || req.CustomerPhone == "" {
			return nil, ErrMissingDeliveryInfo
		}
	default:
		return nil, ErrInvalidShippingMethod
	}

	switch req.PaymentMethod {
	case domain.PaymentEtransfer:
	case domain.PaymentOnArrival:
		if !cfg.Shipping.AllowPayOnArrival {
			return nil, ErrPayOnArrivalDisabled
		}
	default:
		return nil, ErrInvalidPaymentMethod
	}

	// Freeze line items from the catalog. Client-submitted prices are never
	// trusted; the current catalog price wins.
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("load product %s: %w", line.ProductID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
	}

	return items, nil
}

func (s *Service) createOrder(ctx context.Context, req *FinalizeOrderRequest, items []domain.OrderItem, quote Quote) (*domain.Order, error) {
	now := time.Now()
	order := &domain.Order{
		ID:              fmt.Sprintf("ORD-%s", uuid.New()),
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		Subtotal:        quote.Subtotal,
		DiscountAmount:  quote.DiscountAmount,
		ShippingFee:     quote.ShippingFee,
		TaxAmount:       quote.TaxAmount,
		Total:           quote.Total,
		PointsUsed:      quote.PointsUsed,
		PointsEarned:    quote.PointsEarned,
		Status:          domain.OrderStatusPending,
		ShippingMethod:  req.ShippingMethod,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if s.events != nil {
		s.events.OrderCreated(ctx, order)
	}

	return order, nil
}

// UpdateOrderStatus moves an order through the fulfillment state machine.
// Cancelling never claws back points already earned or redeemed; the ledger
// view keeps the resulting drift visible.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, next)
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, next)
	}

	previous := order.Status
	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("from", previous.String()),
		zap.String("to", next.String()))

	if s.events != nil {
		s.events.OrderStatusChanged(ctx, updated, previous)
	}

	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, orderID)
}

func (s *Service) OrderHistory(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListOrdersByUserID(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListOrders(ctx)
}
