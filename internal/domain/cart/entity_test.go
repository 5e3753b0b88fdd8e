package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(id, qty int, price float64) Line {
	return Line{
		ProductID: id,
		Title:     "product",
		UnitPrice: price,
		Quantity:  qty,
	}
}

func TestAddLine_TotalsAlwaysRecomputed(t *testing.T) {
	c := Cart{}

	c.addLine(line(1, 2, 9.99))
	c.addLine(line(2, 1, 100))
	c.addLine(line(3, 4, 0.5))

	assert.Equal(t, 7, c.TotalItems)
	assert.InDelta(t, 2*9.99+100+4*0.5, c.TotalPrice, 1e-9)
}

func TestAddLine_SameProductMergesQuantity(t *testing.T) {
	c := Cart{}

	c.addLine(line(1, 2, 10))
	c.addLine(line(1, 3, 10))

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 5, c.TotalItems)
	assert.InDelta(t, 50, c.TotalPrice, 1e-9)
}

func TestAddLine_NonPositiveQuantityFloorsAtOne(t *testing.T) {
	c := Cart{}

	c.addLine(line(1, 0, 10))

	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestSetQuantity_ClampsAtOne(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"positive", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cart{}
			c.addLine(line(1, 2, 10))

			changed := c.setQuantity(1, tt.quantity)

			assert.True(t, changed)
			assert.Equal(t, tt.want, c.Items[0].Quantity)
		})
	}
}

func TestSetQuantity_AbsentLineIsNoOp(t *testing.T) {
	c := Cart{}
	c.addLine(line(1, 2, 10))

	changed := c.setQuantity(42, 5)

	assert.False(t, changed)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestRemoveLine_AbsentLineIsNoOp(t *testing.T) {
	c := Cart{}
	c.addLine(line(1, 2, 10))
	before := c.clone()

	changed := c.removeLine(42)

	assert.False(t, changed)
	assert.Equal(t, before, c)
}

func TestRemoveLine_DeletesAndRecomputes(t *testing.T) {
	c := Cart{}
	c.addLine(line(1, 2, 10))
	c.addLine(line(2, 1, 5))

	changed := c.removeLine(1)

	assert.True(t, changed)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.TotalItems)
	assert.InDelta(t, 5, c.TotalPrice, 1e-9)
}

func TestClear_AlwaysYieldsEmptyCart(t *testing.T) {
	c := Cart{}
	c.addLine(line(1, 2, 10))
	c.addLine(line(2, 8, 3))

	c.clear()

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPrice)
}

func TestFromSnapshot_RecomputesTotals(t *testing.T) {
	// Persisted totals are not trusted; the reduction over lines wins
	snap := &Snapshot{
		Items:      []Line{line(7, 1, 10)},
		TotalItems: 99,
		TotalPrice: 12345,
	}

	c := fromSnapshot(snap)

	assert.Equal(t, 1, c.TotalItems)
	assert.InDelta(t, 10, c.TotalPrice, 1e-9)
}

func TestClone_IsIndependent(t *testing.T) {
	c := Cart{}
	c.addLine(line(1, 2, 10))

	cp := c.clone()
	cp.Items[0].Quantity = 99

	assert.Equal(t, 2, c.Items[0].Quantity)
}
