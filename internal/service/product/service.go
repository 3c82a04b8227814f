package product

import (
	"context"
	"fmt"
	"strings"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

type productRepo interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error)
	HasBarcode(ctx context.Context, barcode string) (bool, error)
}

type resolver interface {
	ResolveForProduct(ctx context.Context, p domain.Product) (domain.Decorated, error)
}

type Service struct {
	repo     productRepo
	resolver resolver
	logger   *zap.Logger
}

func New(repo productRepo, resolver resolver, logger *zap.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logging.OrNop(logger).Named("product_service")}
}

type CreateInput struct {
	Name     string   `json:"name"`
	Barcode  string   `json:"barcode"`
	Price    float64  `json:"price"`
	Discount *float64 `json:"discount,omitempty"`
}

// PricedProduct is a product with the price its active campaign charges.
type PricedProduct struct {
	domain.Product
	FinalPrice float64 `json:"discounted_price"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	barcode := strings.TrimSpace(in.Barcode)
	switch {
	case name == "":
		return nil, domain.Invalid("name required")
	case barcode == "":
		return nil, domain.Invalid("barcode required")
	case in.Price < 0:
		return nil, domain.Invalid("price must not be negative")
	case in.Discount != nil && (*in.Discount < 0 || *in.Discount > 100):
		return nil, domain.Invalid("discount must be in [0, 100]")
	}

	exists, err := s.repo.HasBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("product %s: %w", barcode, domain.ErrDuplicateBarcode)
	}

	p, err := s.repo.Create(ctx, domain.Product{
		ID:        domain.NoID,
		Name:      name,
		Barcode:   barcode,
		UnitPrice: in.Price,
		Discount:  in.Discount,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("barcode", p.Barcode))
	return p, nil
}

// Get returns the product priced through its active discount campaign.
func (s *Service) Get(ctx context.Context, id string) (*PricedProduct, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decorated, err := s.resolver.ResolveForProduct(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &PricedProduct{Product: *p, FinalPrice: domain.PayableAmount(decorated)}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error) {
	if price < 0 {
		return nil, domain.Invalid("price must not be negative")
	}
	p, err := s.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product price updated", zap.String("product_id", id), zap.Float64("price", price))
	return p, nil
}
