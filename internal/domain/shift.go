package domain

import (
	"fmt"
	"time"
)

// ShiftState is the lifecycle tag of a shift, derived from Status.
type ShiftState int

const (
	ShiftOpen ShiftState = iota
	ShiftClosed
)

func (s ShiftState) String() string {
	if s == ShiftClosed {
		return "closed"
	}
	return "open"
}

// Shift is a cashier work session. Receipts holds the receipts attached
// to the shift ledger. Status true means open.
type Shift struct {
	ID        string    `json:"id"`
	Receipts  []Receipt `json:"receipts"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewShift returns an empty open shift.
func NewShift() Shift {
	return Shift{ID: NoID, Receipts: []Receipt{}, Status: true}
}

func (s Shift) State() ShiftState {
	if s.Status {
		return ShiftOpen
	}
	return ShiftClosed
}

// AttachReceipt appends receipt to an open shift's ledger.
func AttachReceipt(s Shift, receipt Receipt) (Shift, error) {
	switch s.State() {
	case ShiftOpen:
		receipts := make([]Receipt, len(s.Receipts), len(s.Receipts)+1)
		copy(receipts, s.Receipts)
		s.Receipts = append(receipts, receipt)
		return s, nil
	default:
		return s, fmt.Errorf("attach receipt %s to shift %s: %w", receipt.ID, s.ID, ErrShiftClosed)
	}
}

// CloseShift moves an open shift to closed. Closing twice fails.
func CloseShift(s Shift) (Shift, error) {
	switch s.State() {
	case ShiftOpen:
		s.Status = false
		return s, nil
	default:
		return s, fmt.Errorf("close shift %s: %w", s.ID, ErrShiftClosed)
	}
}
