// Package cart aggregates the line items of a storefront session and persists
// them together with the session locale.
package cart

import (
	"errors"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart is the list of line items of one session. It is not safe for concurrent use.
type Cart struct {
	Items []LineItem
}

// AddItem merges quantity into the line of ref.ProductID, or appends a new line.
// The price snapshot of an existing line is kept.
func (c *Cart) AddItem(ref ProductRef, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.index(ref.ProductID); i >= 0 {
		c.Items[i].Quantity += quantity
		return nil
	}
	c.Items = append(c.Items, LineItem{ProductRef: ref, Quantity: quantity})
	return nil
}

// RemoveItem drops the line of productID. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// SetQuantity replaces the quantity of productID. A quantity of zero or less removes the line.
// Setting the quantity of an absent product is a no-op.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// Total is the sum of unit price times quantity in currency, in minor units.
func (c *Cart) Total(currency money.Currency) int64 {
	var total int64
	for _, it := range c.Items {
		total += it.UnitPrice(currency) * int64(it.Quantity)
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) index(productID int64) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (it LineItem) UnitPrice(currency money.Currency) int64 {
	if currency == money.ILS {
		return it.PriceIlsCents
	}
	return it.PriceEurCents
}
