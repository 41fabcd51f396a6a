package order

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderPlacedEvent is emitted after the form relay accepted an order.
type OrderPlacedEvent struct {
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	Customer Customer  `json:"customer"`
	Lines    []Line    `json:"lines"`
	Quote    Quote     `json:"quote"`
	PlacedAt time.Time `json:"placed_at"`
}

// OrderPlacedV1 is the typed event definition for placed orders.
// Subject: events.checkout.v1.order-placed
var OrderPlacedV1 = helper.EventDefinition[OrderPlacedEvent](
	"checkout", "OrderPlaced", "v1",
)

// PlacedEvent converts the order into its event payload.
func (o Order) PlacedEvent() OrderPlacedEvent {
	return OrderPlacedEvent{
		ID:       o.ID,
		Number:   o.Number,
		Customer: o.Customer,
		Lines:    o.Lines,
		Quote:    o.Quote,
		PlacedAt: o.PlacedAt,
	}
}
