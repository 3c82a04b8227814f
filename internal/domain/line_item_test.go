package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productLine(id string, qty int, price float64) ProductForReceipt {
	return ProductForReceipt{Line: Line{ID: id, Quantity: qty, UnitPrice: price, Total: mulMoney(price, qty)}}
}

// discountedLine builds a line of qty units at price discounted to unit.
func discountedLine(id string, qty int, price, unit float64) Line {
	return Line{
		ID:            id,
		Quantity:      qty,
		UnitPrice:     price,
		Total:         mulMoney(price, qty),
		DiscountPrice: ptr(unit),
		DiscountTotal: ptr(mulMoney(unit, qty)),
	}
}

func TestProductForReceiptPrices(t *testing.T) {
	p := productLine("p1", 3, 10)
	assert.Equal(t, 30.0, p.Price())

	_, ok := p.DiscountedPrice()
	assert.False(t, ok)

	p.Line = discountedLine("p1", 3, 10, 8)
	got, ok := p.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, 24.0, got)
}

func TestLinePricesReadStoredTotals(t *testing.T) {
	p := ProductForReceipt{Line: Line{ID: "p1", Quantity: 2, UnitPrice: 10, Total: 25, DiscountTotal: ptr(21)}}
	assert.Equal(t, 25.0, p.Price())

	got, ok := p.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, 21.0, got)
}

func TestComboForReceiptPrices(t *testing.T) {
	c := ComboForReceipt{Line: discountedLine("c1", 2, 15, 12)}
	assert.Equal(t, 30.0, c.Price())

	got, ok := c.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, 24.0, got)
}

func TestGiftForReceiptPrices(t *testing.T) {
	buy := productLine("p1", 2, 10)
	gift := productLine("p2", 2, 5)

	one := GiftForReceipt{Line: Line{ID: "g1", Quantity: 1, UnitPrice: 30, Total: 30}, BuyProduct: buy, GiftProduct: gift}
	assert.Equal(t, 30.0, one.Price())

	// no stored discount total: the bought product is charged per bundle
	two := GiftForReceipt{Line: Line{ID: "g1", Quantity: 2, UnitPrice: 30, Total: 60}, BuyProduct: buy, GiftProduct: gift}
	got, ok := two.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, 40.0, got)
	assert.LessOrEqual(t, got, two.Price())

	two.DiscountTotal = ptr(38)
	got, _ = two.DiscountedPrice()
	assert.Equal(t, 38.0, got)
}

func TestEncodeDecodeItemKeepsVariant(t *testing.T) {
	items := []LineItem{
		productLine("p1", 1, 2.5),
		ComboForReceipt{Line: Line{ID: "c1", Quantity: 1, UnitPrice: 15, Total: 15}, Products: []ProductForReceipt{productLine("p1", 1, 10)}},
		GiftForReceipt{Line: Line{ID: "g1", Quantity: 1, UnitPrice: 15, Total: 15}, BuyProduct: productLine("p1", 1, 10), GiftProduct: productLine("p2", 1, 5)},
	}
	for _, item := range items {
		kind, data, err := EncodeItem(item)
		require.NoError(t, err)

		decoded, err := DecodeItem(kind, data)
		require.NoError(t, err)
		assert.Equal(t, item, decoded)
	}
}

func TestDecodeItemUnknownKind(t *testing.T) {
	_, err := DecodeItem("voucher", []byte(`{}`))
	assert.Error(t, err)
}

func TestDiscountedLineFor(t *testing.T) {
	p := Product{ID: "p1", UnitPrice: 10}
	line := p.DiscountedLineFor(3, 8.5)

	assert.Equal(t, 30.0, line.Price())
	got, ok := line.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, 25.5, got)
	require.NotNil(t, line.DiscountTotal)
	assert.Equal(t, 25.5, *line.DiscountTotal)
}
