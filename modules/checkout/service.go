// Package checkout prices carts and submits orders to the form relay.
package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
	"github.com/3marnadates-alt/3marna.art/domain/order"
	cartmod "github.com/3marnadates-alt/3marna.art/modules/cart"
	"github.com/3marnadates-alt/3marna.art/modules/formrelay"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// Customer-facing failure messages.
const (
	MsgSubmitRejected = "حدث خطأ أثناء إرسال الطلب. يرجى المحاولة مرة أخرى."
	MsgSubmitNetwork  = "حدث خطأ أثناء إرسال الطلب. تأكد من اتصالك بالإنترنت."
)

// SettingsProvider returns the current store settings.
type SettingsProvider interface {
	Settings() catalog.Settings
}

// Carts is the subset of the cart service used at checkout.
type Carts interface {
	Get(sessionID string) cartmod.View
	Clear(sessionID string)
}

// Publisher announces placed orders.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event order.OrderPlacedEvent) error
}

// Result is the outcome of a checkout attempt.
type Result struct {
	Success     bool         `json:"success"`
	ErrorReason string       `json:"error_reason,omitempty"`
	Order       *order.Order `json:"order,omitempty"`
}

// Service places orders for session carts.
type Service struct {
	settings  SettingsProvider
	carts     Carts
	relay     formrelay.Submitter
	numbers   *order.NumberGenerator
	publisher Publisher
	logger    types.Logger
	now       func() time.Time
}

// NewService creates a checkout service. publisher may be nil.
func NewService(settings SettingsProvider, carts Carts, relay formrelay.Submitter,
	numbers *order.NumberGenerator, publisher Publisher, logger types.Logger) *Service {
	return &Service{
		settings:  settings,
		carts:     carts,
		relay:     relay,
		numbers:   numbers,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Quote prices the session cart for delivery to city.
// An empty city is priced as the default checkout city.
func (s *Service) Quote(sessionID, city string) (order.Quote, cartmod.View) {
	if strings.TrimSpace(city) == "" {
		city = catalog.DefaultCity
	}
	view := s.carts.Get(sessionID)
	return order.NewQuote(view.TotalPrice, s.settings.Settings(), city), view
}

// PlaceOrder submits the session cart in a single attempt.
// Validation problems are returned as errors; relay failures are reported
// in the Result with a customer-facing reason. The cart is cleared only on success.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, customer order.Customer) (Result, error) {
	if strings.TrimSpace(customer.City) == "" {
		customer.City = catalog.DefaultCity
	}
	if err := customer.Validate(); err != nil {
		return Result{}, err
	}

	quote, view := s.Quote(sessionID, customer.City)
	if len(view.Items) == 0 {
		return Result{}, order.ErrEmptyCart
	}

	o := order.Order{
		ID:       uuid.NewString(),
		Number:   s.numbers.Next(),
		Customer: customer,
		Lines:    order.LinesFromCart(view.Items),
		Quote:    quote,
		PlacedAt: s.now(),
	}

	res := s.relay.Submit(ctx, o.Form())
	switch res.Outcome {
	case formrelay.OutcomeAccepted:
	case formrelay.OutcomeRejected:
		s.logger.Warn("Order rejected by form relay", "order", o.Number, "status", res.StatusCode)
		return Result{Success: false, ErrorReason: MsgSubmitRejected}, nil
	default:
		s.logger.Warn("Order submission failed", "order", o.Number, "error", res.Err)
		return Result{Success: false, ErrorReason: MsgSubmitNetwork}, nil
	}

	s.carts.Clear(sessionID)
	s.logger.Info("Order placed", "order", o.Number, "total", o.Quote.FinalTotal, "city", o.Customer.City)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, o.PlacedEvent()); err != nil {
			s.logger.Error("Failed to publish OrderPlaced event", "order", o.Number, "error", err)
		}
	}

	return Result{Success: true, Order: &o}, nil
}
