package product

import (
	"context"

	"retail-checkout/internal/domain"
)

// Repository is the product store.
type Repository interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error)
	HasBarcode(ctx context.Context, barcode string) (bool, error)
	UpsertByBarcode(ctx context.Context, product domain.Product) (*domain.Product, error)
}
