package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemKind tags the variant of a receipt line.
type ItemKind string

const (
	ItemProduct ItemKind = "product"
	ItemCombo   ItemKind = "combo"
	ItemGift    ItemKind = "gift"
)

// Line holds the fields shared by every receipt line.
type Line struct {
	ID            string   `json:"id"`
	Quantity      int      `json:"quantity"`
	UnitPrice     float64  `json:"price"`
	Total         float64  `json:"total"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	DiscountTotal *float64 `json:"discount_total,omitempty"`
}

// LineItem is a priced entry on a receipt. The set of implementations is
// closed: ProductForReceipt, ComboForReceipt and GiftForReceipt.
type LineItem interface {
	Priceable
	Kind() ItemKind
	LineInfo() Line
	withLine(Line) LineItem
}

// price is the stored line total. Units added at different prices keep
// their exact sum here, so it is not recomputed from UnitPrice.
func (l Line) price() float64 {
	return l.Total
}

func (l Line) discountedPrice() (float64, bool) {
	if l.DiscountTotal == nil {
		return 0, false
	}
	return *l.DiscountTotal, true
}

// payable is the discount total, or the total for an undiscounted line.
func (l Line) payable() float64 {
	if l.DiscountTotal != nil {
		return *l.DiscountTotal
	}
	return l.Total
}

// merged folds other into l. Quantities and totals are summed; unit prices
// become the per-unit share of the merged totals. When either side carries
// a discount the other side contributes its plain total.
func (l Line) merged(other Line) Line {
	out := l
	out.Quantity = l.Quantity + other.Quantity
	out.Total = sumMoney(l.Total, other.Total)
	if l.UnitPrice != other.UnitPrice {
		out.UnitPrice = scaleMoney(out.Total, 1, out.Quantity)
	}
	if l.DiscountTotal != nil || other.DiscountTotal != nil {
		out.DiscountTotal = ptr(sumMoney(l.payable(), other.payable()))
		out.DiscountPrice = ptr(scaleMoney(*out.DiscountTotal, 1, out.Quantity))
	}
	return out
}

// decremented removes one unit and rescales the totals to the new quantity.
func (l Line) decremented() Line {
	out := l
	out.Quantity = l.Quantity - 1
	out.Total = scaleMoney(l.Total, out.Quantity, l.Quantity)
	if l.DiscountTotal != nil {
		out.DiscountTotal = ptr(scaleMoney(*l.DiscountTotal, out.Quantity, l.Quantity))
	}
	return out
}

func scaleMoney(v float64, num, den int) float64 {
	return decimal.NewFromFloat(v).
		Mul(decimal.NewFromInt(int64(num))).
		Div(decimal.NewFromInt(int64(den))).
		Round(2).
		InexactFloat64()
}

// ProductForReceipt is a single product sold on a receipt.
type ProductForReceipt struct {
	Line
}

func (p ProductForReceipt) Price() float64                   { return p.price() }
func (p ProductForReceipt) DiscountedPrice() (float64, bool) { return p.discountedPrice() }
func (p ProductForReceipt) Kind() ItemKind                   { return ItemProduct }
func (p ProductForReceipt) LineInfo() Line                   { return p.Line }

func (p ProductForReceipt) withLine(l Line) LineItem {
	p.Line = l
	return p
}

// ComboForReceipt is a combo campaign sold as one line.
type ComboForReceipt struct {
	Line
	Products []ProductForReceipt `json:"products"`
}

func (c ComboForReceipt) Price() float64                   { return c.price() }
func (c ComboForReceipt) DiscountedPrice() (float64, bool) { return c.discountedPrice() }
func (c ComboForReceipt) Kind() ItemKind                   { return ItemCombo }
func (c ComboForReceipt) LineInfo() Line                   { return c.Line }

func (c ComboForReceipt) withLine(l Line) LineItem {
	c.Line = l
	return c
}

// GiftForReceipt is a buy-N-get-N campaign sold as one line. The gift
// product is free, so the discounted price only covers the bought product.
type GiftForReceipt struct {
	Line
	BuyProduct  ProductForReceipt `json:"buy_product"`
	GiftProduct ProductForReceipt `json:"gift_product"`
}

func (g GiftForReceipt) Price() float64 { return g.price() }

// DiscountedPrice is always present. A line without a stored discount total
// charges the bought product per bundle.
func (g GiftForReceipt) DiscountedPrice() (float64, bool) {
	if d, ok := g.discountedPrice(); ok {
		return d, true
	}
	return mulMoney(g.BuyProduct.Price(), g.Quantity), true
}

func (g GiftForReceipt) Kind() ItemKind { return ItemGift }
func (g GiftForReceipt) LineInfo() Line { return g.Line }

func (g GiftForReceipt) withLine(l Line) LineItem {
	g.Line = l
	return g
}

// EncodeItem serialises a line for storage.
func EncodeItem(item LineItem) (ItemKind, []byte, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s item: %w", item.Kind(), err)
	}
	return item.Kind(), data, nil
}

// DecodeItem restores a line written by EncodeItem.
func DecodeItem(kind ItemKind, data []byte) (LineItem, error) {
	var (
		item LineItem
		err  error
	)
	switch kind {
	case ItemProduct:
		var p ProductForReceipt
		err = json.Unmarshal(data, &p)
		item = p
	case ItemCombo:
		var c ComboForReceipt
		err = json.Unmarshal(data, &c)
		item = c
	case ItemGift:
		var g GiftForReceipt
		err = json.Unmarshal(data, &g)
		item = g
	default:
		return nil, fmt.Errorf("decode item: unknown item type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s item: %w", kind, err)
	}
	return item, nil
}
