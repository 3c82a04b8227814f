package campaign

import (
	"context"
	"errors"
	"fmt"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

// LookupOrder is the order in which the campaign stores are searched when a
// campaign is looked up or deleted by id.
var LookupOrder = []domain.CampaignType{
	domain.CampaignDiscount,
	domain.CampaignCombo,
	domain.CampaignReceiptDiscount,
	domain.CampaignBuyNGetN,
}

type discountRepo interface {
	Create(ctx context.Context, campaign domain.DiscountCampaign) (*domain.DiscountCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.DiscountCampaign, error)
	List(ctx context.Context) ([]domain.DiscountCampaign, error)
	Delete(ctx context.Context, id string) error
	GetByProduct(ctx context.Context, productID string) (*domain.DiscountCampaign, error)
	AddProduct(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error)
	DeleteProduct(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error)
}

type receiptDiscountRepo interface {
	Create(ctx context.Context, campaign domain.ReceiptCampaign) (*domain.ReceiptCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.ReceiptCampaign, error)
	List(ctx context.Context) ([]domain.ReceiptCampaign, error)
	Delete(ctx context.Context, id string) error
	GetDiscountOnAmount(ctx context.Context, amount float64) (*domain.ReceiptCampaign, error)
}

type comboRepo interface {
	Create(ctx context.Context, campaign domain.ComboCampaign) (*domain.ComboCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.ComboCampaign, error)
	List(ctx context.Context) ([]domain.ComboCampaign, error)
	Delete(ctx context.Context, id string) error
	AddProduct(ctx context.Context, campaignID string, line domain.ProductForReceipt) (*domain.ComboCampaign, error)
}

type buyNGetNRepo interface {
	Create(ctx context.Context, campaign domain.BuyNGetNCampaign) (*domain.BuyNGetNCampaign, error)
	GetByID(ctx context.Context, id string) (*domain.BuyNGetNCampaign, error)
	List(ctx context.Context) ([]domain.BuyNGetNCampaign, error)
	Delete(ctx context.Context, id string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Repos groups the campaign stores the service reads and writes.
type Repos struct {
	Discounts        discountRepo
	ReceiptDiscounts receiptDiscountRepo
	Combos           comboRepo
	BuyNGetN         buyNGetNRepo
	Products         productRepo
}

type Service struct {
	discounts        discountRepo
	receiptDiscounts receiptDiscountRepo
	combos           comboRepo
	gifts            buyNGetNRepo
	products         productRepo
	logger           *zap.Logger
}

func New(repos Repos, logger *zap.Logger) *Service {
	return &Service{
		discounts:        repos.Discounts,
		receiptDiscounts: repos.ReceiptDiscounts,
		combos:           repos.Combos,
		gifts:            repos.BuyNGetN,
		products:         repos.Products,
		logger:           logging.OrNop(logger).Named("campaign_service"),
	}
}

// store is one campaign family in the lookup chain.
type store struct {
	get    func(ctx context.Context, id string) (domain.Campaign, error)
	delete func(ctx context.Context, id string) error
}

func (s *Service) chain() []store {
	byType := map[domain.CampaignType]store{
		domain.CampaignDiscount: {
			get: func(ctx context.Context, id string) (domain.Campaign, error) {
				c, err := s.discounts.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *c, nil
			},
			delete: s.discounts.Delete,
		},
		domain.CampaignCombo: {
			get: func(ctx context.Context, id string) (domain.Campaign, error) {
				c, err := s.combos.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *c, nil
			},
			delete: s.combos.Delete,
		},
		domain.CampaignReceiptDiscount: {
			get: func(ctx context.Context, id string) (domain.Campaign, error) {
				c, err := s.receiptDiscounts.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *c, nil
			},
			delete: s.receiptDiscounts.Delete,
		},
		domain.CampaignBuyNGetN: {
			get: func(ctx context.Context, id string) (domain.Campaign, error) {
				c, err := s.gifts.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *c, nil
			},
			delete: s.gifts.Delete,
		},
	}
	chain := make([]store, 0, len(LookupOrder))
	for _, t := range LookupOrder {
		chain = append(chain, byType[t])
	}
	return chain
}

// lookup walks the chain and returns the first store holding id.
func (s *Service) lookup(ctx context.Context, id string) (domain.Campaign, store, error) {
	for _, st := range s.chain() {
		c, err := st.get(ctx, id)
		if err == nil {
			return c, st, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, store{}, err
		}
	}
	return nil, store{}, fmt.Errorf("campaign %s: %w", id, domain.ErrCampaignNotFound)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Campaign, error) {
	c, _, err := s.lookup(ctx, id)
	return c, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	c, st, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := st.delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("campaign %s: %w", id, domain.ErrCampaignNotFound)
		}
		return err
	}
	s.logger.Info("campaign deleted", zap.String("campaign_id", id), zap.String("campaign_type", string(c.Type())))
	return nil
}

// List returns every campaign, grouped by family in lookup order.
func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	result := []domain.Campaign{}
	for _, t := range LookupOrder {
		switch t {
		case domain.CampaignDiscount:
			list, err := s.discounts.List(ctx)
			if err != nil {
				return nil, err
			}
			for _, c := range list {
				result = append(result, c)
			}
		case domain.CampaignCombo:
			list, err := s.combos.List(ctx)
			if err != nil {
				return nil, err
			}
			for _, c := range list {
				result = append(result, c)
			}
		case domain.CampaignReceiptDiscount:
			list, err := s.receiptDiscounts.List(ctx)
			if err != nil {
				return nil, err
			}
			for _, c := range list {
				result = append(result, c)
			}
		case domain.CampaignBuyNGetN:
			list, err := s.gifts.List(ctx)
			if err != nil {
				return nil, err
			}
			for _, c := range list {
				result = append(result, c)
			}
		}
	}
	return result, nil
}

func validateDiscount(discount float64) error {
	if discount <= 0 || discount > 100 {
		return domain.Invalid("discount must be in (0, 100]")
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity must be positive")
	}
	return nil
}

func (s *Service) CreateDiscount(ctx context.Context, discount float64, productIDs []string) (*domain.DiscountCampaign, error) {
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if _, err := s.products.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
	}
	c, err := s.discounts.Create(ctx, domain.DiscountCampaign{
		ID:           domain.NoID,
		CampaignType: domain.CampaignDiscount,
		Discount:     discount,
		Products:     productIDs,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("discount campaign created", zap.String("campaign_id", c.ID), zap.Float64("discount", discount))
	return c, nil
}

func (s *Service) CreateReceiptDiscount(ctx context.Context, discount, amount float64) (*domain.ReceiptCampaign, error) {
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, domain.Invalid("amount must not be negative")
	}
	c, err := s.receiptDiscounts.Create(ctx, domain.ReceiptCampaign{
		ID:           domain.NoID,
		CampaignType: domain.CampaignReceiptDiscount,
		Total:        amount,
		Discount:     discount,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("receipt campaign created", zap.String("campaign_id", c.ID), zap.Float64("total", amount))
	return c, nil
}

// CreateCombo builds the combo lines from the product store.
func (s *Service) CreateCombo(ctx context.Context, discount float64, products []domain.NumProduct) (*domain.ComboCampaign, error) {
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}
	lines := make([]domain.ProductForReceipt, 0, len(products))
	for _, np := range products {
		line, err := s.productLine(ctx, np)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	c, err := s.combos.Create(ctx, domain.ComboCampaign{
		ID:           domain.NoID,
		CampaignType: domain.CampaignCombo,
		Discount:     discount,
		Products:     lines,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("combo campaign created", zap.String("campaign_id", c.ID), zap.Int("products", len(lines)))
	return c, nil
}

// CreateBuyNGetN gives gift for free with buy. The gift line is stored with
// a zero discount total.
func (s *Service) CreateBuyNGetN(ctx context.Context, buy, gift domain.NumProduct) (*domain.BuyNGetNCampaign, error) {
	buyLine, err := s.productLine(ctx, buy)
	if err != nil {
		return nil, err
	}
	giftLine, err := s.productLine(ctx, gift)
	if err != nil {
		return nil, err
	}
	free := 0.0
	giftLine.DiscountTotal = &free

	c, err := s.gifts.Create(ctx, domain.BuyNGetNCampaign{
		ID:           domain.NoID,
		CampaignType: domain.CampaignBuyNGetN,
		BuyProduct:   buyLine,
		GiftProduct:  giftLine,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("buy-n-get-n campaign created", zap.String("campaign_id", c.ID),
		zap.String("buy_product_id", buy.ProductID), zap.String("gift_product_id", gift.ProductID))
	return c, nil
}

func (s *Service) productLine(ctx context.Context, np domain.NumProduct) (domain.ProductForReceipt, error) {
	if err := validateQuantity(np.Num); err != nil {
		return domain.ProductForReceipt{}, err
	}
	p, err := s.products.GetByID(ctx, np.ProductID)
	if err != nil {
		return domain.ProductForReceipt{}, fmt.Errorf("product %s: %w", np.ProductID, err)
	}
	return p.LineFor(np.Num), nil
}

func (s *Service) AddProductToDiscount(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}
	c, err := s.discounts.AddProduct(ctx, campaignID, productID)
	if err != nil {
		return nil, campaignErr(campaignID, err)
	}
	return c, nil
}

func (s *Service) RemoveProductFromDiscount(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error) {
	c, err := s.discounts.DeleteProduct(ctx, campaignID, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s in campaign %s: %w", productID, campaignID, err)
	}
	return c, nil
}

// AddProductToCombo appends quantity units of the product to the combo.
func (s *Service) AddProductToCombo(ctx context.Context, campaignID, productID string, quantity int) (*domain.ComboCampaign, error) {
	line, err := s.productLine(ctx, domain.NumProduct{ProductID: productID, Num: quantity})
	if err != nil {
		return nil, err
	}
	c, err := s.combos.AddProduct(ctx, campaignID, line)
	if err != nil {
		return nil, campaignErr(campaignID, err)
	}
	return c, nil
}

func (s *Service) GetCombo(ctx context.Context, id string) (*domain.ComboCampaign, error) {
	c, err := s.combos.GetByID(ctx, id)
	if err != nil {
		return nil, campaignErr(id, err)
	}
	return c, nil
}

func (s *Service) GetBuyNGetN(ctx context.Context, id string) (*domain.BuyNGetNCampaign, error) {
	c, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return nil, campaignErr(id, err)
	}
	return c, nil
}

// ResolveForProduct wraps p in the discount of the campaign listing it, or
// in an identity decorator when none does.
func (s *Service) ResolveForProduct(ctx context.Context, p domain.Product) (domain.Decorated, error) {
	c, err := s.discounts.GetByProduct(ctx, p.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ProductDecorator{Inner: p}, nil
		}
		return nil, err
	}
	if !c.Contains(p.ID) {
		s.logger.Warn("discount campaign does not list product",
			zap.String("campaign_id", c.ID), zap.String("product_id", p.ID))
		return domain.ProductDecorator{Inner: p}, nil
	}
	return domain.DiscountedProduct{Inner: p, Discount: c.Discount}, nil
}

// ResolveForReceipt wraps r in the receipt campaign with the greatest
// threshold its price reaches.
func (s *Service) ResolveForReceipt(ctx context.Context, r *domain.Receipt) (domain.DiscountedReceipt, error) {
	c, err := s.receiptDiscounts.GetDiscountOnAmount(ctx, r.Price())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DiscountedReceipt{Receipt: r}, nil
		}
		return domain.DiscountedReceipt{}, err
	}
	if !c.Qualifies(r.Price()) {
		s.logger.Warn("receipt campaign above receipt price",
			zap.String("campaign_id", c.ID), zap.Float64("price", r.Price()))
		return domain.DiscountedReceipt{Receipt: r}, nil
	}
	pct := c.Discount
	return domain.DiscountedReceipt{Receipt: r, Percent: &pct}, nil
}

func campaignErr(id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("campaign %s: %w", id, domain.ErrCampaignNotFound)
	}
	return err
}
