package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"pharmacy", "parapharmacy", "store"} {
		cat, err := ParseCategory(valid)
		require.NoError(t, err)
		assert.Equal(t, Category(valid), cat)
	}

	_, err := ParseCategory("grooming")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = ParseCategory("")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestNewLineItem(t *testing.T) {
	item, err := NewLineItem("p1", "Flea Collar", 1299, 2, "img/collar.png")
	require.NoError(t, err)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, int64(1299), item.UnitPrice)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, int64(2598), item.Subtotal())
	assert.False(t, item.AddedAt.IsZero())
}

func TestNewLineItem_Invalid(t *testing.T) {
	_, err := NewLineItem("", "Flea Collar", 1299, 1, "")
	assert.ErrorIs(t, err, ErrMissingProduct)

	_, err = NewLineItem("p1", "", 1299, 1, "")
	assert.ErrorIs(t, err, ErrMissingProduct)

	_, err = NewLineItem("p1", "Flea Collar", -1, 1, "")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewLineItem("p1", "Flea Collar", 1299, 0, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewLineItem("p1", "Flea Collar", 1299, -3, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartTotal(t *testing.T) {
	c := NewCart("1:pharmacy")
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Total())

	// 9.99 x2 + 3.50 x1 = 23.48
	a, err := NewLineItem("a", "Dewormer", 999, 2, "")
	require.NoError(t, err)
	b, err := NewLineItem("b", "Vitamin Drops", 350, 1, "")
	require.NoError(t, err)
	c.Items = append(c.Items, a, b)

	assert.Equal(t, int64(2348), c.Total())

	totals := c.Summary()
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, int64(2348), totals.TotalAmount)
}

func TestCartFind(t *testing.T) {
	c := NewCart("1:store")
	item, _ := NewLineItem("a", "Chew Toy", 500, 1, "")
	c.Items = append(c.Items, item)

	assert.Equal(t, 0, c.Find("a"))
	assert.Equal(t, -1, c.Find("b"))
}

func TestCartClone(t *testing.T) {
	c := NewCart("1:store")
	item, _ := NewLineItem("a", "Chew Toy", 500, 1, "")
	c.Items = append(c.Items, item)

	clone := c.Clone()
	clone.Items[0].Quantity = 10

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 10, clone.Items[0].Quantity)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "42:pharmacy", Key(42, CategoryPharmacy))
}
