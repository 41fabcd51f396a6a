// Package catalog provides the product and store settings entities.
package catalog

import (
	"errors"
	"strings"
)

// Category is the closed set of product categories.
type Category string

const (
	CategoryLuxury  Category = "luxury"
	CategoryDaily   Category = "daily"
	CategoryStuffed Category = "stuffed"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLuxury, CategoryDaily, CategoryStuffed:
		return true
	}
	return false
}

// Validation errors
var (
	ErrNameRequired        = errors.New("product name is required")
	ErrPriceRequired       = errors.New("product price is required")
	ErrInvalidCategory     = errors.New("product category must be luxury, daily or stuffed")
	ErrInvalidDiscount     = errors.New("discount percentage must be between 0 and 100")
	ErrNegativeDeliveryFee = errors.New("delivery rates must not be negative")
)

// Product represents a sellable item in the catalog.
// Price is display text, e.g. "185 ج.م / كجم".
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
}

// UnitPrice returns the numeric per-unit amount parsed from the display price.
func (p Product) UnitPrice() float64 {
	return ParsePrice(p.Price)
}

// ProductInput holds the fields of a product without its identity.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
}

// Validate checks required-field presence, as enforced by the admin form.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.Price) == "" {
		return ErrPriceRequired
	}
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// WithID builds a Product from the input.
func (in ProductInput) WithID(id int) Product {
	return Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
	}
}

// DeliveryRates maps each locality key to its delivery fee.
type DeliveryRates struct {
	Cairo    float64 `json:"cairo"`
	Giza     float64 `json:"giza"`
	October  float64 `json:"october"`
	Haram    float64 `json:"haram"`
	Rehab    float64 `json:"rehab"`
	Madinaty float64 `json:"madinaty"`
	Ismailia float64 `json:"ismailia"`
	Alex     float64 `json:"alex"`
	Tanta    float64 `json:"tanta"`
	Mansoura float64 `json:"mansoura"`
	Others   float64 `json:"others"`
}

// Rate returns the fee for a locality key. Unknown keys get the Others rate.
func (r DeliveryRates) Rate(key RateKey) float64 {
	switch key {
	case RateCairo:
		return r.Cairo
	case RateGiza:
		return r.Giza
	case RateOctober:
		return r.October
	case RateHaram:
		return r.Haram
	case RateRehab:
		return r.Rehab
	case RateMadinaty:
		return r.Madinaty
	case RateIsmailia:
		return r.Ismailia
	case RateAlex:
		return r.Alex
	case RateTanta:
		return r.Tanta
	case RateMansoura:
		return r.Mansoura
	default:
		return r.Others
	}
}

// Map returns the rates keyed by locality key.
func (r DeliveryRates) Map() map[RateKey]float64 {
	m := make(map[RateKey]float64, len(rateKeys))
	for _, k := range rateKeys {
		m[k] = r.Rate(k)
	}
	return m
}

// Settings is the store-wide configuration singleton.
type Settings struct {
	DeliveryRates      DeliveryRates `json:"deliveryRates"`
	DiscountPercentage float64       `json:"discountPercentage"`
	IsDiscountActive   bool          `json:"isDiscountActive"`
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if s.DiscountPercentage < 0 || s.DiscountPercentage > 100 {
		return ErrInvalidDiscount
	}
	for _, fee := range s.DeliveryRates.Map() {
		if fee < 0 {
			return ErrNegativeDeliveryFee
		}
	}
	return nil
}
