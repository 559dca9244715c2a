package checkout

import "errors"

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrInvalidQuantity       = errors.New("line quantity must be at least 1")
	ErrUnknownProduct        = errors.New("cart references an unknown product")
	ErrMissingDeliveryInfo   = errors.New("delivery orders require a shipping address and phone number")
	ErrMissingCustomerInfo   = errors.New("customer name and email are required")
	ErrInvalidShippingMethod = errors.New("unknown shipping method")
	ErrInvalidPaymentMethod  = errors.New("unknown payment method")
	ErrPayOnArrivalDisabled  = errors.New("pay on arrival is not accepted")
	ErrNegativeRedemption    = errors.New("points to redeem must not be negative")
	ErrInvalidStatus         = errors.New("unknown order status")
	ErrIllegalTransition     = errors.New("illegal order status transition")
)

// IsValidationError reports whether err is a checkout input rejection, as
// opposed to a not-found or internal failure.
func IsValidationError(err error) bool {
	for _, v := range []error{
		ErrEmptyCart,
		ErrInvalidQuantity,
		ErrUnknownProduct,
		ErrMissingDeliveryInfo,
		ErrMissingCustomerInfo,
		ErrInvalidShippingMethod,
		ErrInvalidPaymentMethod,
		ErrPayOnArrivalDisabled,
		ErrNegativeRedemption,
		ErrInvalidStatus,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
