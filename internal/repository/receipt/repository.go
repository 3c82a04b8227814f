package receipt

import (
	"context"

	"retail-checkout/internal/domain"
)

// Repository is the receipt store. Lines are persisted as a whole: AddProduct
// and DeleteItem write the receipt's current lines and totals. Settle also
// writes the status and appends the receipt to its shift ledger.
type Repository interface {
	Create(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
	GetByID(ctx context.Context, id string) (*domain.Receipt, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Receipt, error)
	List(ctx context.Context) ([]domain.Receipt, error)
	Delete(ctx context.Context, id string) error
	AddProduct(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
	DeleteItem(ctx context.Context, receipt domain.Receipt) error
	Settle(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
}
