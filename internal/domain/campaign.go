package domain

// CampaignType identifies the campaign family.
type CampaignType string

const (
	CampaignDiscount        CampaignType = "discount"
	CampaignReceiptDiscount CampaignType = "receipt_discount"
	CampaignCombo           CampaignType = "combo"
	CampaignBuyNGetN        CampaignType = "buy_n_get_n"
)

// Campaign is one of DiscountCampaign, ReceiptCampaign, ComboCampaign or
// BuyNGetNCampaign.
type Campaign interface {
	CampaignID() string
	Type() CampaignType
}

// DiscountCampaign takes Discount percent off each listed product.
type DiscountCampaign struct {
	ID           string       `json:"id"`
	CampaignType CampaignType `json:"campaign_type"`
	Discount     float64      `json:"discount"`
	Products     []string     `json:"products"`
}

func (c DiscountCampaign) CampaignID() string { return c.ID }
func (c DiscountCampaign) Type() CampaignType { return CampaignDiscount }

// Contains reports whether the campaign lists productID.
func (c DiscountCampaign) Contains(productID string) bool {
	for _, id := range c.Products {
		if id == productID {
			return true
		}
	}
	return false
}

// ReceiptCampaign takes Discount percent off a receipt priced at Total or more.
type ReceiptCampaign struct {
	ID           string       `json:"id"`
	CampaignType CampaignType `json:"campaign_type"`
	Total        float64      `json:"total"`
	Discount     float64      `json:"discount"`
}

func (c ReceiptCampaign) CampaignID() string { return c.ID }
func (c ReceiptCampaign) Type() CampaignType { return CampaignReceiptDiscount }

// Qualifies reports whether a receipt priced at amount reaches the threshold.
func (c ReceiptCampaign) Qualifies(amount float64) bool {
	return amount >= c.Total
}

// ComboCampaign sells a set of product lines together at Discount percent off.
type ComboCampaign struct {
	ID           string              `json:"id"`
	CampaignType CampaignType        `json:"campaign_type"`
	Discount     float64             `json:"discount"`
	Products     []ProductForReceipt `json:"products"`
}

func (c ComboCampaign) CampaignID() string { return c.ID }
func (c ComboCampaign) Type() CampaignType { return CampaignCombo }

func (c ComboCampaign) Price() float64 {
	prices := make([]float64, 0, len(c.Products))
	for _, p := range c.Products {
		prices = append(prices, p.Price())
	}
	return sumMoney(prices...)
}

func (c ComboCampaign) DiscountedPrice() (float64, bool) {
	return c.RealPrice(), true
}

// RealPrice is the combo price after the combo discount.
func (c ComboCampaign) RealPrice() float64 {
	return percentOff(c.Price(), c.Discount)
}

// BuyNGetNCampaign gives GiftProduct for free with BuyProduct.
type BuyNGetNCampaign struct {
	ID           string            `json:"id"`
	CampaignType CampaignType      `json:"campaign_type"`
	BuyProduct   ProductForReceipt `json:"buy_product"`
	GiftProduct  ProductForReceipt `json:"gift_product"`
}

func (c BuyNGetNCampaign) CampaignID() string { return c.ID }
func (c BuyNGetNCampaign) Type() CampaignType { return CampaignBuyNGetN }

func (c BuyNGetNCampaign) Price() float64 {
	return sumMoney(c.BuyProduct.Price(), c.GiftProduct.Price())
}

func (c BuyNGetNCampaign) DiscountedPrice() (float64, bool) {
	return c.RealPrice(), true
}

// RealPrice is what the customer pays: the bought product only.
func (c BuyNGetNCampaign) RealPrice() float64 {
	return c.BuyProduct.Price()
}

// ComboLine converts the combo into a receipt line of qty combos.
func (c ComboCampaign) ComboLine(qty int) ComboForReceipt {
	price := c.Price()
	paid := c.RealPrice()
	return ComboForReceipt{
		Line: Line{
			ID:            c.ID,
			Quantity:      qty,
			UnitPrice:     price,
			Total:         mulMoney(price, qty),
			DiscountPrice: ptr(paid),
			DiscountTotal: ptr(mulMoney(paid, qty)),
		},
		Products: c.Products,
	}
}

// GiftLine converts the campaign into a receipt line of qty bundles.
func (c BuyNGetNCampaign) GiftLine(qty int) GiftForReceipt {
	price := c.Price()
	paid := c.RealPrice()
	return GiftForReceipt{
		Line: Line{
			ID:            c.ID,
			Quantity:      qty,
			UnitPrice:     price,
			Total:         mulMoney(price, qty),
			DiscountPrice: ptr(paid),
			DiscountTotal: ptr(mulMoney(paid, qty)),
		},
		BuyProduct:  c.BuyProduct,
		GiftProduct: c.GiftProduct,
	}
}
