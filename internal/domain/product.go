package domain

import "time"

// Product is a catalogue entry. Discount is a display-only list price
// reduction and never changes Price.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	UnitPrice float64   `json:"price"`
	Discount  *float64  `json:"discount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Product) Price() float64 {
	return p.UnitPrice
}

// DiscountedPrice of a bare catalogue product is its base price; promotions
// are layered on by DiscountedProduct.
func (p Product) DiscountedPrice() (float64, bool) {
	return p.UnitPrice, true
}

// NumProduct pairs a product id with a count.
type NumProduct struct {
	ProductID string `json:"product_id"`
	Num       int    `json:"num"`
}

// LineFor converts the product into a receipt line of qty units.
func (p Product) LineFor(qty int) ProductForReceipt {
	return ProductForReceipt{Line: Line{
		ID:        p.ID,
		Quantity:  qty,
		UnitPrice: p.UnitPrice,
		Total:     mulMoney(p.UnitPrice, qty),
	}}
}

// DiscountedLineFor is LineFor with a promotional unit price.
func (p Product) DiscountedLineFor(qty int, unit float64) ProductForReceipt {
	line := p.LineFor(qty)
	line.DiscountPrice = ptr(unit)
	line.DiscountTotal = ptr(mulMoney(unit, qty))
	return line
}
