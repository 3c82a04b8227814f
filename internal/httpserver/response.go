package httpserver

import (
	"strconv"
	"time"

	"retail-checkout/internal/domain"
)

type listResponse[T any] struct {
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Count   int `json:"count"`
	Total   int `json:"total"`
	Results []T `json:"results"`
}

// paginate slices items by limit and offset. A non-positive limit means 20.
func paginate[T any](items []T, limit, offset int) listResponse[T] {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	sliced := []T{}
	if offset < len(items) {
		sliced = items[offset:end]
	}
	return listResponse[T]{
		Limit:   limit,
		Offset:  offset,
		Count:   len(sliced),
		Total:   len(items),
		Results: sliced,
	}
}

func parsePaging(limitRaw, offsetRaw string) (int, int) {
	limit, _ := strconv.Atoi(limitRaw)
	offset, _ := strconv.Atoi(offsetRaw)
	return limit, offset
}

type receiptItemResponse struct {
	Type          domain.ItemKind            `json:"type"`
	ID            string                     `json:"id"`
	Quantity      int                        `json:"quantity"`
	Price         float64                    `json:"price"`
	Total         float64                    `json:"total"`
	DiscountPrice *float64                   `json:"discount_price"`
	DiscountTotal *float64                   `json:"discount_total"`
	Products      []domain.ProductForReceipt `json:"products,omitempty"`
	BuyProduct    *domain.ProductForReceipt  `json:"buy_product,omitempty"`
	GiftProduct   *domain.ProductForReceipt  `json:"gift_product,omitempty"`
}

type receiptResponse struct {
	ID              string                `json:"id"`
	ShiftID         string                `json:"shift_id"`
	Status          bool                  `json:"status"`
	State           string                `json:"state"`
	Items           []receiptItemResponse `json:"items"`
	Total           float64               `json:"total"`
	DiscountTotal   *float64              `json:"discount_total"`
	DiscountedPrice *float64              `json:"discounted_price"`
	AmountDue       float64               `json:"amount_due"`
	CreatedAt       time.Time             `json:"createdAt"`
}

type shiftResponse struct {
	ID        string            `json:"id"`
	Status    bool              `json:"status"`
	State     string            `json:"state"`
	Receipts  []receiptResponse `json:"receipts"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toReceiptItem(item domain.LineItem) receiptItemResponse {
	line := item.LineInfo()
	out := receiptItemResponse{
		Type:          item.Kind(),
		ID:            line.ID,
		Quantity:      line.Quantity,
		Price:         line.UnitPrice,
		Total:         line.Total,
		DiscountPrice: line.DiscountPrice,
		DiscountTotal: line.DiscountTotal,
	}
	switch it := item.(type) {
	case domain.ComboForReceipt:
		out.Products = it.Products
	case domain.GiftForReceipt:
		buy, gift := it.BuyProduct, it.GiftProduct
		out.BuyProduct = &buy
		out.GiftProduct = &gift
	}
	return out
}

func toReceiptResponse(r domain.Receipt) receiptResponse {
	items := make([]receiptItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, toReceiptItem(item))
	}
	var discounted *float64
	if d, ok := r.DiscountedPrice(); ok {
		discounted = &d
	}
	return receiptResponse{
		ID:              r.ID,
		ShiftID:         r.ShiftID,
		Status:          r.Status,
		State:           r.State().String(),
		Items:           items,
		Total:           r.Total,
		DiscountTotal:   r.DiscountTotal,
		DiscountedPrice: discounted,
		AmountDue:       r.AmountDue(),
		CreatedAt:       r.CreatedAt,
	}
}

func toReceiptResponses(receipts []domain.Receipt) []receiptResponse {
	out := make([]receiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toReceiptResponse(r))
	}
	return out
}

func toShiftResponse(s domain.Shift) shiftResponse {
	return shiftResponse{
		ID:        s.ID,
		Status:    s.Status,
		State:     s.State().String(),
		Receipts:  toReceiptResponses(s.Receipts),
		CreatedAt: s.CreatedAt,
	}
}

// toCampaignResponse stamps the campaign type on the value written out.
func toCampaignResponse(c domain.Campaign) any {
	switch v := c.(type) {
	case domain.DiscountCampaign:
		v.CampaignType = v.Type()
		if v.Products == nil {
			v.Products = []string{}
		}
		return v
	case domain.ReceiptCampaign:
		v.CampaignType = v.Type()
		return v
	case domain.ComboCampaign:
		v.CampaignType = v.Type()
		return v
	case domain.BuyNGetNCampaign:
		v.CampaignType = v.Type()
		return v
	}
	return c
}
