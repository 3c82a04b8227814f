package domain

import (
	"fmt"
	"time"
)

// ReceiptState is the lifecycle tag of a receipt, derived from Status.
type ReceiptState int

const (
	ReceiptOpen ReceiptState = iota
	ReceiptClosed
)

func (s ReceiptState) String() string {
	if s == ReceiptClosed {
		return "closed"
	}
	return "open"
}

// Receipt belongs to exactly one shift. Status true means open.
type Receipt struct {
	ID            string     `json:"id"`
	ShiftID       string     `json:"shift_id"`
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	DiscountTotal *float64   `json:"discount_total"`
	Status        bool       `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// NewReceipt returns an empty open receipt for the shift.
func NewReceipt(shiftID string) Receipt {
	return Receipt{ID: NoID, ShiftID: shiftID, Items: []LineItem{}, Status: true}
}

func (r Receipt) State() ReceiptState {
	if r.Status {
		return ReceiptOpen
	}
	return ReceiptClosed
}

func (r Receipt) Price() float64 {
	prices := make([]float64, 0, len(r.Items))
	for _, item := range r.Items {
		prices = append(prices, item.Price())
	}
	return sumMoney(prices...)
}

// DiscountedPrice sums discounted-or-base prices over the lines. It reports
// false when no line carries a discount below its base price.
func (r Receipt) DiscountedPrice() (float64, bool) {
	discounted := false
	prices := make([]float64, 0, len(r.Items))
	for _, item := range r.Items {
		base := item.Price()
		if d, ok := item.DiscountedPrice(); ok {
			if d < base {
				discounted = true
			}
			prices = append(prices, d)
			continue
		}
		prices = append(prices, base)
	}
	if !discounted {
		return 0, false
	}
	return sumMoney(prices...), true
}

// PayableAmount is the discounted price when present, otherwise the price.
func PayableAmount(p Priceable) float64 {
	if d, ok := p.DiscountedPrice(); ok {
		return d
	}
	return p.Price()
}

// AmountDue is what the customer pays: the payable amount plus the receipt
// campaign adjustment held in DiscountTotal.
func (r Receipt) AmountDue() float64 {
	if r.DiscountTotal == nil {
		return PayableAmount(r)
	}
	return sumMoney(PayableAmount(r), *r.DiscountTotal)
}

func (r Receipt) findItem(id string) int {
	for i, item := range r.Items {
		if item.LineInfo().ID == id {
			return i
		}
	}
	return -1
}

func (r Receipt) withItems(items []LineItem) Receipt {
	r.Items = items
	r.Total = r.Price()
	return r
}

// AddItem appends item to an open receipt, merging it into an existing line
// with the same id. The input receipt is not modified.
func AddItem(r Receipt, item LineItem) (Receipt, error) {
	switch r.State() {
	case ReceiptOpen:
		items := make([]LineItem, len(r.Items), len(r.Items)+1)
		copy(items, r.Items)
		if i := r.findItem(item.LineInfo().ID); i >= 0 {
			items[i] = items[i].withLine(items[i].LineInfo().merged(item.LineInfo()))
		} else {
			items = append(items, item)
		}
		return r.withItems(items), nil
	default:
		return r, fmt.Errorf("add item to receipt %s: %w", r.ID, ErrReceiptClosed)
	}
}

// DeleteItem removes one unit of the line with itemID, dropping the line
// when its last unit goes.
func DeleteItem(r Receipt, itemID string) (Receipt, error) {
	switch r.State() {
	case ReceiptOpen:
		i := r.findItem(itemID)
		if i < 0 {
			return r, fmt.Errorf("delete item %s from receipt %s: %w", itemID, r.ID, ErrItemNotFound)
		}
		items := make([]LineItem, 0, len(r.Items))
		items = append(items, r.Items[:i]...)
		if line := r.Items[i].LineInfo(); line.Quantity > 1 {
			items = append(items, r.Items[i].withLine(line.decremented()))
		}
		items = append(items, r.Items[i+1:]...)
		return r.withItems(items), nil
	default:
		return r, fmt.Errorf("delete item from receipt %s: %w", r.ID, ErrReceiptClosed)
	}
}

// CloseReceipt moves an open receipt to closed. Closing twice fails.
func CloseReceipt(r Receipt) (Receipt, error) {
	switch r.State() {
	case ReceiptOpen:
		r.Status = false
		return r, nil
	default:
		return r, fmt.Errorf("close receipt %s: %w", r.ID, ErrReceiptClosed)
	}
}
