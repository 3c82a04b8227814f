package domain

import "github.com/shopspring/decimal"

// NoID is the id of an entity that has not been persisted yet.
const NoID = ""

// Priceable is implemented by everything that can be sold or totalled:
// products, receipt lines, campaigns and receipts.
//
// Price is the base price times quantity, ignoring promotions.
// DiscountedPrice reports the promotional price and false when no
// promotion applies.
type Priceable interface {
	Price() float64
	DiscountedPrice() (float64, bool)
}

var hundred = decimal.NewFromInt(100)

// percentOff returns price reduced by pct percent, rounded to cents.
func percentOff(price, pct float64) float64 {
	p := decimal.NewFromFloat(price)
	factor := hundred.Sub(decimal.NewFromFloat(pct))
	return p.Mul(factor).Div(hundred).Round(2).InexactFloat64()
}

// percentOf returns pct percent of price, rounded to cents.
func percentOf(price, pct float64) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(2).InexactFloat64()
}

func mulMoney(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Round(2).InexactFloat64()
}

func sumMoney(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

func ptr(v float64) *float64 {
	return &v
}
