package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDecoratorIsIdentity(t *testing.T) {
	p := Product{ID: "p1", Name: "Milk", Barcode: "111", UnitPrice: 4.5}
	d := ProductDecorator{Inner: p}

	assert.Equal(t, p.Price(), d.Price())
	got, ok := d.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, d.Price(), got)
}

func TestProductDiscountIsInformational(t *testing.T) {
	p := Product{ID: "p1", UnitPrice: 10, Discount: ptr(50)}
	assert.Equal(t, 10.0, p.Price())
}

func TestDiscountedProduct(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{name: "ten percent", price: 100, discount: 10, want: 90},
		{name: "zero", price: 40, discount: 0, want: 40},
		{name: "full", price: 40, discount: 100, want: 0},
		{name: "rounded to cents", price: 9.99, discount: 15, want: 8.49},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inner := Product{ID: "p1", UnitPrice: tc.price}
			d := DiscountedProduct{Inner: inner, Discount: tc.discount}

			assert.Equal(t, tc.price, d.Price())
			got, ok := d.DiscountedPrice()
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, got, d.Price())
		})
	}
}

func TestDiscountedProductLeavesInnerUntouched(t *testing.T) {
	inner := Product{ID: "p1", UnitPrice: 20}
	d := DiscountedProduct{Inner: inner, Discount: 25}
	_, _ = d.DiscountedPrice()

	assert.Equal(t, 20.0, inner.UnitPrice)
	assert.Equal(t, inner, d.Inner)
}

func TestDiscountedReceipt(t *testing.T) {
	r := Receipt{ID: "r1", Items: []LineItem{productLine("p1", 1, 650)}, Status: true}

	d := DiscountedReceipt{Receipt: &r, Percent: ptr(60)}
	require.NotNil(t, d.DiscountTotal())
	assert.Equal(t, -390.0, *d.DiscountTotal())

	got, ok := d.DiscountedPrice()
	require.True(t, ok)
	assert.Equal(t, 260.0, got)

	resolved := d.Resolved()
	require.NotNil(t, resolved.DiscountTotal)
	assert.Equal(t, -390.0, *resolved.DiscountTotal)
	assert.Nil(t, r.DiscountTotal)
}

func TestDiscountedReceiptWithoutCampaign(t *testing.T) {
	r := Receipt{ID: "r1", Items: []LineItem{productLine("p1", 1, 20)}, Status: true}
	d := DiscountedReceipt{Receipt: &r}

	assert.Nil(t, d.DiscountTotal())
	_, ok := d.DiscountedPrice()
	assert.False(t, ok)
	assert.Equal(t, 20.0, d.Price())
}
