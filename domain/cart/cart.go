// Package cart provides the shopping cart line-item model.
package cart

import "github.com/3marnadates-alt/3marna.art/domain/catalog"

// Item is a cart line: a snapshot of the product taken when it was first
// added, plus a quantity that is always at least 1.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}

// Cart holds line items in insertion order, one per product id.
// A Cart is not safe for concurrent use.
type Cart struct {
	items []Item
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of the line for p.ID, or appends a new line
// with quantity 1.
func (c *Cart) Add(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
}

// Remove deletes the line for id. Missing ids are ignored.
func (c *Cart) Remove(id int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// UpdateQuantity sets the quantity for id. A quantity below 1 removes the line.
func (c *Cart) UpdateQuantity(id, quantity int) {
	if quantity < 1 {
		c.Remove(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.items[i].Quantity = quantity
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	return len(c.items)
}

// TotalItems returns the sum of quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice returns the sum of line subtotals.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

func (c *Cart) index(id int) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
