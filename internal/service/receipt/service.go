package receipt

import (
	"context"
	"fmt"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

type receiptRepo interface {
	Create(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
	GetByID(ctx context.Context, id string) (*domain.Receipt, error)
	List(ctx context.Context) ([]domain.Receipt, error)
	Delete(ctx context.Context, id string) error
	AddProduct(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
	DeleteItem(ctx context.Context, receipt domain.Receipt) error
	Settle(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
}

type shiftRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type campaigns interface {
	ResolveForProduct(ctx context.Context, p domain.Product) (domain.Decorated, error)
	ResolveForReceipt(ctx context.Context, r *domain.Receipt) (domain.DiscountedReceipt, error)
	GetCombo(ctx context.Context, id string) (*domain.ComboCampaign, error)
	GetBuyNGetN(ctx context.Context, id string) (*domain.BuyNGetNCampaign, error)
}

type Service struct {
	repo      receiptRepo
	shifts    shiftRepo
	products  productRepo
	campaigns campaigns
	logger    *zap.Logger
}

func New(repo receiptRepo, shifts shiftRepo, products productRepo, campaigns campaigns, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		shifts:    shifts,
		products:  products,
		campaigns: campaigns,
		logger:    logging.OrNop(logger).Named("receipt_service"),
	}
}

// Create opens an empty receipt on an open shift.
func (s *Service) Create(ctx context.Context, shiftID string) (*domain.Receipt, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("shift %s: %w", shiftID, err)
	}
	if shift.State() == domain.ShiftClosed {
		return nil, fmt.Errorf("open receipt on shift %s: %w", shiftID, domain.ErrShiftClosed)
	}
	r, err := s.repo.Create(ctx, domain.NewReceipt(shiftID))
	if err != nil {
		return nil, err
	}
	s.logger.Info("receipt created", zap.String("receipt_id", r.ID), zap.String("shift_id", shiftID))
	return r, nil
}

// Get returns the receipt. Open receipts have their receipt campaign
// adjustment resolved; closed ones keep the adjustment they were settled at.
func (s *Service) Get(ctx context.Context, id string) (*domain.Receipt, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.State() == domain.ReceiptClosed {
		return r, nil
	}
	resolved, err := s.resolve(ctx, *r)
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Receipt, error) {
	return s.repo.List(ctx)
}

// AddProduct adds quantity units of the product, priced through its
// discount campaign.
func (s *Service) AddProduct(ctx context.Context, receiptID, productID string, quantity int) (*domain.Receipt, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity must be positive")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}
	decorated, err := s.campaigns.ResolveForProduct(ctx, *p)
	if err != nil {
		return nil, err
	}
	line := p.LineFor(quantity)
	if unit := domain.PayableAmount(decorated); unit < p.Price() {
		line = p.DiscountedLineFor(quantity, unit)
	}
	return s.addItem(ctx, receiptID, line)
}

// AddCombo adds quantity units of the combo as one line.
func (s *Service) AddCombo(ctx context.Context, receiptID, comboID string, quantity int) (*domain.Receipt, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity must be positive")
	}
	combo, err := s.campaigns.GetCombo(ctx, comboID)
	if err != nil {
		return nil, err
	}
	return s.addItem(ctx, receiptID, combo.ComboLine(quantity))
}

// AddGift adds quantity bundles of a buy-N-get-N campaign as one line.
func (s *Service) AddGift(ctx context.Context, receiptID, campaignID string, quantity int) (*domain.Receipt, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity must be positive")
	}
	c, err := s.campaigns.GetBuyNGetN(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return s.addItem(ctx, receiptID, c.GiftLine(quantity))
}

func (s *Service) addItem(ctx context.Context, receiptID string, item domain.LineItem) (*domain.Receipt, error) {
	r, err := s.repo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	updated, err := domain.AddItem(*r, item)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolve(ctx, updated)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.AddProduct(ctx, resolved)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("item added",
		zap.String("receipt_id", receiptID),
		zap.String("item_id", item.LineInfo().ID),
		zap.String("item_type", string(item.Kind())),
		zap.Int("quantity", item.LineInfo().Quantity))
	return saved, nil
}

// DeleteItem removes one unit of the line with itemID.
func (s *Service) DeleteItem(ctx context.Context, receiptID, itemID string) (*domain.Receipt, error) {
	r, err := s.repo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	updated, err := domain.DeleteItem(*r, itemID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolve(ctx, updated)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, resolved); err != nil {
		return nil, err
	}
	s.logger.Debug("item removed", zap.String("receipt_id", receiptID), zap.String("item_id", itemID))
	return &resolved, nil
}

// Delete removes an open receipt. Closed receipts are part of the shift
// ledger and stay.
func (s *Service) Delete(ctx context.Context, id string) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.State() == domain.ReceiptClosed {
		return fmt.Errorf("delete receipt %s: %w", id, domain.ErrReceiptClosed)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("receipt deleted", zap.String("receipt_id", id))
	return nil
}

// Close settles the receipt at its resolved prices and appends it to the
// ledger of its shift, which must be open.
func (s *Service) Close(ctx context.Context, id string) (*domain.Receipt, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	closed, err := domain.CloseReceipt(*r)
	if err != nil {
		return nil, err
	}
	shift, err := s.shifts.GetByID(ctx, r.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("shift %s: %w", r.ShiftID, err)
	}
	resolved, err := s.resolve(ctx, closed)
	if err != nil {
		return nil, err
	}
	if _, err := domain.AttachReceipt(*shift, resolved); err != nil {
		return nil, err
	}
	saved, err := s.repo.Settle(ctx, resolved)
	if err != nil {
		return nil, err
	}
	s.logger.Info("receipt closed", zap.String("receipt_id", id), zap.String("shift_id", shift.ID))
	return saved, nil
}

func (s *Service) resolve(ctx context.Context, r domain.Receipt) (domain.Receipt, error) {
	decorated, err := s.campaigns.ResolveForReceipt(ctx, &r)
	if err != nil {
		return domain.Receipt{}, err
	}
	return decorated.Resolved(), nil
}
