package campaign

import (
	"context"

	"retail-checkout/internal/domain"
)

// DiscountRepository stores per-product percentage campaigns.
type DiscountRepository interface {
	Create(ctx context.Context, campaign domain.DiscountCampaign) (*domain.DiscountCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.DiscountCampaign, error)
	List(ctx context.Context) ([]domain.DiscountCampaign, error)
	Delete(ctx context.Context, id string) error
	// GetByProduct returns the campaign listing productID. When several do,
	// the one with the largest discount wins.
	GetByProduct(ctx context.Context, productID string) (*domain.DiscountCampaign, error)
	AddProduct(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error)
	DeleteProduct(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error)
}

// ReceiptDiscountRepository stores receipt-total campaigns.
type ReceiptDiscountRepository interface {
	Create(ctx context.Context, campaign domain.ReceiptCampaign) (*domain.ReceiptCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.ReceiptCampaign, error)
	List(ctx context.Context) ([]domain.ReceiptCampaign, error)
	Delete(ctx context.Context, id string) error
	// GetDiscountOnAmount returns the campaign with the greatest threshold
	// not above amount.
	GetDiscountOnAmount(ctx context.Context, amount float64) (*domain.ReceiptCampaign, error)
}

type ComboRepository interface {
	Create(ctx context.Context, campaign domain.ComboCampaign) (*domain.ComboCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.ComboCampaign, error)
	List(ctx context.Context) ([]domain.ComboCampaign, error)
	Delete(ctx context.Context, id string) error
	AddProduct(ctx context.Context, campaignID string, line domain.ProductForReceipt) (*domain.ComboCampaign, error)
}

type BuyNGetNRepository interface {
	Create(ctx context.Context, campaign domain.BuyNGetNCampaign) (*domain.BuyNGetNCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.BuyNGetNCampaign, error)
	List(ctx context.Context) ([]domain.BuyNGetNCampaign, error)
	Delete(ctx context.Context, id string) error
}
