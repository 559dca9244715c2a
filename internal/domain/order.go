package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// transitions is the full fulfillment state machine. Shipped and delivered
// orders are not cancellable; delivered and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type ShippingMethod string

const (
	ShippingPickup   ShippingMethod = "pickup"
	ShippingDelivery ShippingMethod = "delivery"
)

type PaymentMethod string

const (
	PaymentEtransfer PaymentMethod = "etransfer"
	PaymentOnArrival PaymentMethod = "on_arrival"
)

// OrderItem is a frozen copy of a product at settlement time, independent of
// later catalog edits.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is immutable once created, except Status which moves through the
// transition table above. The invariant
// Total = Subtotal - DiscountAmount + ShippingFee + TaxAmount holds for
// every order ever created (within cent rounding).
type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId,omitempty"`
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerPhone   string         `json:"customerPhone,omitempty"`
	ShippingAddress string         `json:"shippingAddress,omitempty"`
	Items           []OrderItem    `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	DiscountAmount  float64        `json:"discountAmount"`
	ShippingFee     float64        `json:"shippingFee"`
	TaxAmount       float64        `json:"taxAmount"`
	Total           float64        `json:"total"`
	PointsUsed      int            `json:"pointsUsed"`
	PointsEarned    int            `json:"pointsEarned"`
	Status          OrderStatus    `json:"status"`
	ShippingMethod  ShippingMethod `json:"shippingMethod"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
