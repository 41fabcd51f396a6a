package orders

import (
	"fmt"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/order"
	"gorm.io/gorm"
)

// OrderRecord is a placed order kept in the ledger.
type OrderRecord struct {
	ID             uint         `gorm:"primarykey" json:"-"`
	EventID        string       `gorm:"size:64;uniqueIndex;not null" json:"id"`
	Number         string       `gorm:"size:8;index;not null" json:"number"`
	CustomerName   string       `gorm:"size:200;not null" json:"customer_name"`
	Phone          string       `gorm:"size:50;not null" json:"phone"`
	City           string       `gorm:"size:100;not null" json:"city"`
	Address        string       `gorm:"size:500;not null" json:"address"`
	Subtotal       float64      `gorm:"not null" json:"subtotal"`
	DeliveryFee    float64      `gorm:"not null" json:"delivery_fee"`
	DiscountAmount float64      `gorm:"not null;default:0" json:"discount_amount"`
	FinalTotal     float64      `gorm:"not null" json:"final_total"`
	Lines          []LineRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	PlacedAt       time.Time    `gorm:"index" json:"placed_at"`
	CreatedAt      time.Time    `json:"created_at"`
}

// TableName returns the table name for OrderRecord.
func (OrderRecord) TableName() string {
	return "orders"
}

// LineRecord is one product row of a ledger order.
type LineRecord struct {
	ID        uint   `gorm:"primarykey" json:"-"`
	OrderID   uint   `gorm:"index;not null" json:"-"`
	ProductID int    `json:"product_id"`
	Name      string `gorm:"size:200" json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `gorm:"size:50" json:"price"`
}

// TableName returns the table name for LineRecord.
func (LineRecord) TableName() string {
	return "order_lines"
}

// NewOrderRecord converts an OrderPlaced event into a ledger record.
func NewOrderRecord(e order.OrderPlacedEvent) *OrderRecord {
	lines := make([]LineRecord, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, LineRecord{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return &OrderRecord{
		EventID:        eventID(e),
		Number:         e.Number,
		CustomerName:   e.Customer.Name,
		Phone:          e.Customer.Phone,
		City:           e.Customer.City,
		Address:        e.Customer.Address,
		Subtotal:       e.Quote.Subtotal,
		DeliveryFee:    e.Quote.DeliveryFee,
		DiscountAmount: e.Quote.DiscountAmount,
		FinalTotal:     e.Quote.FinalTotal,
		Lines:          lines,
		PlacedAt:       e.PlacedAt,
	}
}

// eventID is the dedup key of an event. Events without an id fall back to a
// key built from the fields that tell two orders apart.
func eventID(e order.OrderPlacedEvent) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s-%d-%s-%g", e.Number, e.PlacedAt.UnixNano(), e.Customer.Phone, e.Quote.FinalTotal)
}

// Migrate creates or updates the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&OrderRecord{}, &LineRecord{})
}
