package shift

import (
	"context"

	"retail-checkout/internal/domain"
)

// Repository is the shift store. The shift ledger lists the receipts
// attached through AddReceipt.
type Repository interface {
	Create(ctx context.Context, shift domain.Shift) (*domain.Shift, error)
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	List(ctx context.Context) ([]domain.Shift, error)
	UpdateStatus(ctx context.Context, id string, status bool) error
	AddReceipt(ctx context.Context, shift domain.Shift) (*domain.Shift, error)
}

// ReceiptLoader loads the receipts referenced by a shift ledger.
type ReceiptLoader interface {
	GetMany(ctx context.Context, ids []string) ([]domain.Receipt, error)
}
