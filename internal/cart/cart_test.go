package cart

import (
	"testing"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	necklace = ProductRef{ProductID: 1, ProductSlug: "star-of-david-gold-necklace", PriceEurCents: 5000, PriceIlsCents: 19900}
	pendant  = ProductRef{ProductID: 2, ProductSlug: "chai-diamond-pendant", PriceEurCents: 1000, PriceIlsCents: 3900}
)

func TestAddItemMergesSameProduct(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(necklace, 1))
	require.NoError(t, c.AddItem(necklace, 2))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItemKeepsFirstPriceSnapshot(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(necklace, 1))
	repriced := necklace
	repriced.PriceEurCents = 9999
	require.NoError(t, c.AddItem(repriced, 1))

	assert.Equal(t, int64(5000), c.Items[0].PriceEurCents)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	var c Cart
	assert.ErrorIs(t, c.AddItem(necklace, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(necklace, -2), ErrInvalidQuantity)
	assert.Empty(t, c.Items)
}

func TestSetQuantity(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(necklace, 1))
	require.NoError(t, c.AddItem(pendant, 1))

	c.SetQuantity(necklace.ProductID, 4)
	assert.Equal(t, 4, c.Items[0].Quantity)

	c.SetQuantity(necklace.ProductID, 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, pendant.ProductID, c.Items[0].ProductID)

	c.SetQuantity(pendant.ProductID, -1)
	assert.Empty(t, c.Items)

	c.SetQuantity(99, 3)
	assert.Empty(t, c.Items)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(necklace, 2))

	c.RemoveItem(42)
	require.Len(t, c.Items, 1)

	c.RemoveItem(necklace.ProductID)
	assert.Empty(t, c.Items)
}

func TestTotalsAndCount(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(necklace, 2))
	require.NoError(t, c.AddItem(pendant, 1))

	assert.Equal(t, int64(11000), c.Total(money.EUR))
	assert.Equal(t, int64(43700), c.Total(money.ILS))
	assert.Equal(t, 3, c.Count())

	c.Clear()
	assert.Equal(t, int64(0), c.Total(money.EUR))
	assert.Equal(t, 0, c.Count())
	assert.NotNil(t, c.Items)
}
