package api

import (
	"errors"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
	"github.com/3marnadates-alt/3marna.art/domain/order"
)

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AddToCartRequest is the body of POST /api/v1/cart/items.
type AddToCartRequest struct {
	ProductID int `json:"product_id"`
}

// UpdateQuantityRequest is the body of PUT /api/v1/cart/items/:id.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// QuoteRequest is the body of POST /api/v1/checkout/quote.
type QuoteRequest struct {
	City string `json:"city"`
}

// QuoteResponse is a priced cart with display amounts.
type QuoteResponse struct {
	Quote     order.Quote     `json:"quote"`
	Formatted FormattedAmount `json:"formatted"`
	Items     int             `json:"total_items"`
}

// FormattedAmount holds the quote amounts as shown to customers.
type FormattedAmount struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

func formatQuote(q order.Quote) FormattedAmount {
	return FormattedAmount{
		Subtotal:    order.FormatCurrency(q.Subtotal),
		DeliveryFee: order.FormatCurrency(q.DeliveryFee),
		Discount:    order.FormatCurrency(q.DiscountAmount),
		Total:       order.FormatCurrency(q.FinalTotal),
	}
}

// LocalityResponse is a checkout destination with its current fee.
type LocalityResponse struct {
	Name string  `json:"name"`
	Key  string  `json:"key"`
	Fee  float64 `json:"fee"`
}

// UpdateSettingsRequest is the body of PUT /api/v1/admin/settings.
type UpdateSettingsRequest struct {
	DeliveryRates      *catalog.DeliveryRates `json:"deliveryRates"`
	DiscountPercentage *float64               `json:"discountPercentage"`
	IsDiscountActive   *bool                  `json:"isDiscountActive"`
}

// Settings returns the full settings, or an error naming a missing field.
func (r UpdateSettingsRequest) Settings() (catalog.Settings, error) {
	switch {
	case r.DeliveryRates == nil:
		return catalog.Settings{}, errors.New("deliveryRates is required")
	case r.DiscountPercentage == nil:
		return catalog.Settings{}, errors.New("discountPercentage is required")
	case r.IsDiscountActive == nil:
		return catalog.Settings{}, errors.New("isDiscountActive is required")
	}
	return catalog.Settings{
		DeliveryRates:      *r.DeliveryRates,
		DiscountPercentage: *r.DiscountPercentage,
		IsDiscountActive:   *r.IsDiscountActive,
	}, nil
}

// AdminLoginRequest is the body of POST /api/v1/admin/login.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLoginResponse carries the admin session token.
type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ChatResponse is the reply of POST /api/v1/assistant/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ConsentResponse reports the consent flag of the session.
type ConsentResponse struct {
	CookieConsent bool `json:"cookieConsent"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Modules map[string]any `json:"modules,omitempty"`
}

// Socket message types for /ws/chat.
const (
	WSTypeGreeting = "greeting"
	WSTypeMessage  = "message"
	WSTypeReply    = "reply"
	WSTypeError    = "error"
)

// WSMessage is a frame exchanged on /ws/chat.
type WSMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
