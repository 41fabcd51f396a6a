// Package order provides checkout pricing and the order submitted to the form relay.
package order

import (
	"strconv"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
)

// CurrencySuffix is appended to every amount shown to customers.
const CurrencySuffix = " ج.م"

// Quote is the price breakdown for a checkout.
type Quote struct {
	City           string  `json:"city"`
	Subtotal       float64 `json:"subtotal"`
	DeliveryFee    float64 `json:"delivery_fee"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalTotal     float64 `json:"final_total"`
}

// NewQuote prices a cart subtotal for delivery to city.
// No rounding is applied and a negative total is returned as is.
func NewQuote(subtotal float64, settings catalog.Settings, city string) Quote {
	fee := settings.DeliveryRates.DeliveryFee(city)

	discount := 0.0
	if settings.IsDiscountActive {
		discount = subtotal * settings.DiscountPercentage / 100
	}

	return Quote{
		City:           city,
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		DiscountAmount: discount,
		FinalTotal:     subtotal + fee - discount,
	}
}

// FormatCurrency renders an amount with the currency suffix, e.g. "315 ج.م".
func FormatCurrency(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + CurrencySuffix
}
