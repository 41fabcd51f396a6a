package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/cart"
	"github.com/3marnadates-alt/3marna.art/domain/form"
)

// StoreName is used in the order e-mail subject.
const StoreName = "تمور العمارنة"

// Validation errors
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNameRequired     = errors.New("customer name is required")
	ErrPhoneRequired    = errors.New("phone is required")
	ErrAddressRequired  = errors.New("address is required")
	ErrCityRequired     = errors.New("city is required")
	ErrInvalidOrderCode = errors.New("invalid order number")
)

// Customer holds the delivery details entered at checkout.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Validate checks that every field is present.
func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(c.Phone) == "":
		return ErrPhoneRequired
	case strings.TrimSpace(c.City) == "":
		return ErrCityRequired
	case strings.TrimSpace(c.Address) == "":
		return ErrAddressRequired
	}
	return nil
}

// Line is one product row of an order.
type Line struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// String renders the line as shown in the order e-mail.
func (l Line) String() string {
	return fmt.Sprintf("- %s | الكمية: %d | السعر: %s", l.Name, l.Quantity, l.Price)
}

// Order is a priced checkout ready for submission.
type Order struct {
	// ID identifies the order uniquely. Numbers may repeat.
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	Customer Customer  `json:"customer"`
	Lines    []Line    `json:"lines"`
	Quote    Quote     `json:"quote"`
	PlacedAt time.Time `json:"placed_at"`
}

// LinesFromCart converts cart items into order lines.
func LinesFromCart(items []cart.Item) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return lines
}

// ProductsText joins the order lines with newlines.
func (o Order) ProductsText() string {
	rows := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

// Subject is the e-mail subject line for the order.
func (o Order) Subject() string {
	return fmt.Sprintf("طلب جديد #%s: %s - %s", o.Number, o.Customer.Name, StoreName)
}

// Form builds the multipart fields posted to the form relay.
func (o Order) Form() form.Fields {
	var f form.Fields
	f.Add("OrderNumber", "#"+o.Number)
	f.Add("CustomerName", o.Customer.Name)
	f.Add("Phone", o.Customer.Phone)
	f.Add("City", o.Customer.City)
	f.Add("Address", o.Customer.Address)
	f.Add("Products", o.ProductsText())
	f.Add("Subtotal", FormatCurrency(o.Quote.Subtotal))
	f.Add("DeliveryFee", FormatCurrency(o.Quote.DeliveryFee))
	f.Add("Discount", FormatCurrency(o.Quote.DiscountAmount))
	f.Add("TotalAmount", FormatCurrency(o.Quote.FinalTotal))
	f.Add("_subject", o.Subject())
	return f
}
