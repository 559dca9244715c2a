package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aetherstore/storefront/internal/checkout"
	"github.com/aetherstore/storefront/internal/domain"
)

type CheckoutService interface {
	FinalizeOrder(ctx context.Context, req checkout.FinalizeOrderRequest) (*domain.Order, *domain.User, error)
	UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	OrderHistory(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

type OrdersHandler struct {
	checkout CheckoutService
	timeout  time.Duration
}

func NewOrdersHandler(checkout CheckoutService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type OrderLineDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CreateOrderRequestDTO is the legacy storefront wire format. The monetary
// fields (subtotal, shippingFee, taxAmount, total) are accepted for
// compatibility with older clients but never trusted: the settlement core
// recomputes every amount from the line items and the current config.
type CreateOrderRequestDTO struct {
	UserID          string         `json:"userId,omitempty"`
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerPhone   string         `json:"customerPhone,omitempty"`
	ShippingAddress string         `json:"shippingAddress,omitempty"`
	Items           []OrderLineDTO `json:"items"`
	Subtotal        float64        `json:"subtotal,omitempty"`
	ShippingFee     float64        `json:"shippingFee,omitempty"`
	TaxAmount       float64        `json:"taxAmount,omitempty"`
	Total           float64        `json:"total,omitempty"`
	PointsUsed      int            `json:"pointsUsed,omitempty"`
	ShippingMethod  string         `json:"shippingMethod"`
	PaymentMethod   string         `json:"paymentMethod"`
}

type CreateOrderResponseDTO struct {
	Order *domain.Order `json:"order"`
	User  *domain.User  `json:"user,omitempty"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// POST /api/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	lines := make([]domain.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	order, user, err := h.checkout.FinalizeOrder(ctx, checkout.FinalizeOrderRequest{
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           lines,
		PointsToRedeem:  req.PointsUsed,
		ShippingMethod:  domain.ShippingMethod(req.ShippingMethod),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponseDTO{Order: order, User: user})
}

// PUT /api/orders/{order_id}
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkout.UpdateOrderStatus(ctx, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /api/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.checkout.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /api/orders/me?userId=...
func (h *OrdersHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "userId is required")
		return
	}

	orders, err := h.checkout.OrderHistory(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/orders (operator view)
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.checkout.ListOrders(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}
