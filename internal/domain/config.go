package domain

// LoyaltyConfig controls the points program. PointsToDollarRate must be
// positive whenever Enabled is true (it is a divisor).
type LoyaltyConfig struct {
	Enabled            bool    `json:"enabled"`
	PointsPerDollar    float64 `json:"pointsPerDollar"`
	PointsToDollarRate float64 `json:"pointsToDollarRate"`
}

type ShippingConfig struct {
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	FlatRate              float64 `json:"flatRate"`
	TaxRate               float64 `json:"taxRate"` // percentage, 0-100
	PickupLocation        string  `json:"pickupLocation"`
	AllowPayOnArrival     bool    `json:"allowPayOnArrival"`
}

// StorefrontConfig is read as a snapshot once at the top of every settlement
// so a single order never mixes old and new rates.
type StorefrontConfig struct {
	Shipping ShippingConfig `json:"shipping"`
	Loyalty  LoyaltyConfig  `json:"loyalty"`
}
