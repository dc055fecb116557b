// Package cart holds the per-session shopping cart: a set of line items keyed
// by product id, plus the stores that keep a cart alive for the length of a
// browsing session.
package cart

import "time"

// Line is one product in the cart. UnitPrice is the catalog price captured
// when the product was first added; later catalog changes do not touch it.
type Line struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is not safe for concurrent use. A SessionStore hands out one cart per
// session and serialises access to it.
type Cart struct {
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges quantity into the line for item.ProductID, appending a new
// line if the product is not in the cart yet. Quantities below one are
// treated as one.
func (c *Cart) AddItem(item Item, quantity int) []Line {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.indexOf(item.ProductID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Image:     item.Image,
			Quantity:  quantity,
			AddedAt:   time.Now().UTC(),
		})
	}

	return c.touch()
}

// RemoveItem drops the line for productID. Removing a product that is not in
// the cart does nothing.
func (c *Cart) RemoveItem(productID string) []Line {
	i := c.indexOf(productID)
	if i < 0 {
		return c.Lines()
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return c.touch()
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes the line. It never creates a line.
func (c *Cart) SetQuantity(productID string, quantity int) []Line {
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}

	i := c.indexOf(productID)
	if i < 0 {
		return c.Lines()
	}

	c.Items[i].Quantity = quantity
	return c.touch()
}

func (c *Cart) TotalItemCount() int {
	total := 0
	for _, l := range c.Items {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the unrounded sum of unit price times quantity.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Items {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

func (c *Cart) Clear() {
	c.Items = nil
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) Line(productID string) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return Line{}, false
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.Items {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() []Line {
	c.UpdatedAt = time.Now().UTC()
	return c.Lines()
}
