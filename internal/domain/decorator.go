package domain

// Decorated is a priceable wrapped by the campaign resolver.
type Decorated interface {
	Priceable
}

// ProductDecorator forwards both prices unchanged. It stands for an item
// with no active promotion.
type ProductDecorator struct {
	Inner Priceable
}

func (d ProductDecorator) Price() float64                   { return d.Inner.Price() }
func (d ProductDecorator) DiscountedPrice() (float64, bool) { return d.Inner.DiscountedPrice() }

// DiscountedProduct takes Discount percent off the wrapped item's price.
type DiscountedProduct struct {
	Inner    Priceable
	Discount float64
}

func (d DiscountedProduct) Price() float64 { return d.Inner.Price() }

func (d DiscountedProduct) DiscountedPrice() (float64, bool) {
	return percentOff(d.Inner.Price(), d.Discount), true
}

// DiscountedReceipt applies an optional receipt campaign percentage on top
// of a receipt. A nil Percent means no receipt campaign qualified.
type DiscountedReceipt struct {
	Receipt *Receipt
	Percent *float64
}

func (d DiscountedReceipt) Price() float64 { return d.Receipt.Price() }

// DiscountTotal is the negative adjustment granted by the receipt campaign.
func (d DiscountedReceipt) DiscountTotal() *float64 {
	if d.Percent == nil {
		return nil
	}
	return ptr(-percentOf(d.Receipt.Price(), *d.Percent))
}

func (d DiscountedReceipt) DiscountedPrice() (float64, bool) {
	total := d.DiscountTotal()
	if total == nil {
		return d.Receipt.DiscountedPrice()
	}
	return sumMoney(PayableAmount(d.Receipt), *total), true
}

// Resolved returns a copy of the receipt carrying the campaign adjustment.
func (d DiscountedReceipt) Resolved() Receipt {
	r := *d.Receipt
	r.DiscountTotal = d.DiscountTotal()
	return r
}
