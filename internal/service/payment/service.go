package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

type receiptRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Receipt, error)
	Settle(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
}

type shiftRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
}

type resolver interface {
	ResolveForReceipt(ctx context.Context, r *domain.Receipt) (domain.DiscountedReceipt, error)
}

// Converter converts an amount between currencies.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount float64) (float64, error)
}

type Service struct {
	receipts     receiptRepo
	shifts       shiftRepo
	resolver     resolver
	converter    Converter
	baseCurrency string
	logger       *zap.Logger
}

func New(receipts receiptRepo, shifts shiftRepo, resolver resolver, converter Converter, baseCurrency string, logger *zap.Logger) *Service {
	if baseCurrency == "" {
		baseCurrency = domain.BaseCurrency
	}
	return &Service{
		receipts:     receipts,
		shifts:       shifts,
		resolver:     resolver,
		converter:    converter,
		baseCurrency: strings.ToUpper(baseCurrency),
		logger:       logging.OrNop(logger).Named("payment_service"),
	}
}

// Payment is the amount charged for a receipt.
type Payment struct {
	ReceiptID string  `json:"receipt_id"`
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
}

// Pay charges the receipt in currency, closes it and attaches it to its
// shift. Nothing is written when the receipt or shift is closed or the
// conversion fails.
func (s *Service) Pay(ctx context.Context, receiptID, currency string) (*Payment, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.baseCurrency
	}

	r, err := s.receipts.GetByID(ctx, receiptID)
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

	decorated, err := s.resolver.ResolveForReceipt(ctx, &closed)
	if err != nil {
		return nil, err
	}
	paid := decorated.Resolved()
	if _, err := domain.AttachReceipt(*shift, paid); err != nil {
		return nil, err
	}

	amount := paid.AmountDue()
	if currency != s.baseCurrency {
		amount, err = s.converter.Convert(ctx, s.baseCurrency, currency, amount)
		if err != nil {
			s.logger.Warn("conversion failed",
				zap.String("receipt_id", receiptID),
				zap.String("currency", currency),
				zap.Error(err))
			if !errors.Is(err, domain.ErrCurrencyConversion) {
				err = fmt.Errorf("%w: %v", domain.ErrCurrencyConversion, err)
			}
			return nil, err
		}
	}

	if _, err := s.receipts.Settle(ctx, paid); err != nil {
		s.logger.Error("settle failed", zap.String("receipt_id", paid.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("receipt paid",
		zap.String("receipt_id", paid.ID),
		zap.String("shift_id", shift.ID),
		zap.String("currency", currency),
		zap.Float64("amount", amount))
	return &Payment{ReceiptID: paid.ID, Currency: currency, Amount: amount}, nil
}
