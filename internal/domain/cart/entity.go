// internal/domain/cart/entity.go
package cart

import "time"

// Line represents one product line in the cart. AvailableStock is the
// stock snapshot at the time the product was fetched, not authoritative.
type Line struct {
	ProductID       int     `json:"product_id" bson:"product_id"`
	Title           string  `json:"title" bson:"title"`
	UnitPrice       float64 `json:"unit_price" bson:"unit_price"`
	Thumbnail       string  `json:"thumbnail" bson:"thumbnail"`
	Quantity        int     `json:"quantity" bson:"quantity"`
	AvailableStock  int     `json:"available_stock" bson:"available_stock"`
	DiscountPercent float64 `json:"discount_percent,omitempty" bson:"discount_percent,omitempty"`
}

// Cart is the aggregate of lines and derived totals. TotalItems and
// TotalPrice are always the reduction over Items, recomputed on every
// transition and never mutated independently.
type Cart struct {
	Items      []Line  `json:"items"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

// Snapshot is the document shape persisted per identity in the remote
// document store, and in the local slot for anonymous sessions. Version
// is a monotonic write token; stores reject writes older than the
// version they already hold.
type Snapshot struct {
	Items      []Line    `json:"items" bson:"items"`
	TotalItems int       `json:"total_items" bson:"total_items"`
	TotalPrice float64   `json:"total_price" bson:"total_price"`
	Version    int64     `json:"version" bson:"version"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// addLine merges by product ID: a line that already exists accumulates
// quantity, a new one is appended in insertion order.
func (c *Cart) addLine(line Line) bool {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ProductID == line.ProductID {
			c.Items[i].Quantity += line.Quantity
			c.recompute()
			return true
		}
	}

	c.Items = append(c.Items, line)
	c.recompute()
	return true
}

// removeLine deletes the matching line. Absent lines are a no-op.
func (c *Cart) removeLine(productID int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recompute()
			return true
		}
	}
	return false
}

// setQuantity floors the quantity at 1. Removal is a distinct explicit
// action, never a side effect of a quantity update. Absent lines are a
// no-op.
func (c *Cart) setQuantity(productID, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.recompute()
			return true
		}
	}
	return false
}

// clear resets to the empty cart
func (c *Cart) clear() bool {
	c.Items = nil
	c.recompute()
	return true
}

func (c *Cart) recompute() {
	c.TotalItems = 0
	c.TotalPrice = 0
	for _, line := range c.Items {
		c.TotalItems += line.Quantity
		c.TotalPrice += line.UnitPrice * float64(line.Quantity)
	}
}

// clone returns a deep copy safe to hand to callers and goroutines
func (c *Cart) clone() Cart {
	out := Cart{
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
	}
	if len(c.Items) > 0 {
		out.Items = make([]Line, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

// snapshot captures the cart as a persistable document
func (c *Cart) snapshot(version int64) *Snapshot {
	cp := c.clone()
	return &Snapshot{
		Items:      cp.Items,
		TotalItems: cp.TotalItems,
		TotalPrice: cp.TotalPrice,
		Version:    version,
		UpdatedAt:  time.Now().UTC(),
	}
}

// fromSnapshot rebuilds the cart from a persisted document. Totals are
// recomputed rather than trusted.
func fromSnapshot(snap *Snapshot) Cart {
	c := Cart{}
	if len(snap.Items) > 0 {
		c.Items = make([]Line, len(snap.Items))
		copy(c.Items, snap.Items)
	}
	c.recompute()
	return c
}
