package checkout

import (
	"math"

	"github.com/aetherstore/storefront/internal/domain"
)

// Quote is the priced breakdown of a cart under one config snapshot.
// Total = Subtotal - DiscountAmount + ShippingFee + TaxAmount always holds
// (DiscountAmount is clamped so SubtotalAfterDiscount never goes negative).
type Quote struct {
	Subtotal              float64
	DiscountAmount        float64
	SubtotalAfterDiscount float64
	ShippingFee           float64
	TaxAmount             float64
	Total                 float64
	PointsUsed            int
	PointsEarned          int

	// RedemptionSkipped is set when points were requested but the balance
	// could not cover them. The order proceeds at full price.
	RedemptionSkipped bool
}

// round2 rounds a currency amount to the nearest cent.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// settle prices a cart against a config snapshot. It is pure: balance
// mutation is the caller's job. pointsBalance is ignored for guests.
//
// The discount applies before tax and shipping are computed, so redeemed
// points reduce the taxable amount and can drop an order below the
// free-shipping threshold.
func settle(
	cfg domain.StorefrontConfig,
	items []domain.OrderItem,
	method domain.ShippingMethod,
	guest bool,
	pointsBalance int,
	pointsToRedeem int,
) Quote {
	var q Quote

	for _, item := range items {
		q.Subtotal += item.Price * float64(item.Quantity)
	}
	q.Subtotal = round2(q.Subtotal)

	loyaltyActive := cfg.Loyalty.Enabled && !guest

	if loyaltyActive && pointsToRedeem > 0 && cfg.Loyalty.PointsToDollarRate > 0 {
		if pointsBalance >= pointsToRedeem {
			q.PointsUsed = pointsToRedeem
			q.DiscountAmount = round2(float64(pointsToRedeem) / cfg.Loyalty.PointsToDollarRate)
		} else {
			q.RedemptionSkipped = true
		}
	}

	q.SubtotalAfterDiscount = round2(q.Subtotal - q.DiscountAmount)
	if q.SubtotalAfterDiscount < 0 {
		// clamp: a redemption larger than the cart still yields a $0 order,
		// and the recorded discount matches what was actually applied
		q.DiscountAmount = q.Subtotal
		q.SubtotalAfterDiscount = 0
	}

	switch {
	case method == domain.ShippingPickup:
		q.ShippingFee = 0
	case q.SubtotalAfterDiscount >= cfg.Shipping.FreeShippingThreshold:
		q.ShippingFee = 0
	default:
		q.ShippingFee = cfg.Shipping.FlatRate
	}

	q.TaxAmount = round2(q.SubtotalAfterDiscount * cfg.Shipping.TaxRate / 100)
	q.Total = round2(q.SubtotalAfterDiscount + q.ShippingFee + q.TaxAmount)

	if loyaltyActive {
		// tiny epsilon so float dust at an exact integer boundary
		// (e.g. 49.0*10) cannot floor down a whole point
		q.PointsEarned = int(math.Floor(q.SubtotalAfterDiscount*cfg.Loyalty.PointsPerDollar + 1e-9))
	}

	return q
}
