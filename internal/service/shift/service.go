package shift

import (
	"context"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

type shiftRepo interface {
	Create(ctx context.Context, shift domain.Shift) (*domain.Shift, error)
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	List(ctx context.Context) ([]domain.Shift, error)
	UpdateStatus(ctx context.Context, id string, status bool) error
	AddReceipt(ctx context.Context, shift domain.Shift) (*domain.Shift, error)
}

type Service struct {
	repo   shiftRepo
	logger *zap.Logger
}

func New(repo shiftRepo, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logging.OrNop(logger).Named("shift_service")}
}

func (s *Service) Create(ctx context.Context) (*domain.Shift, error) {
	shift, err := s.repo.Create(ctx, domain.NewShift())
	if err != nil {
		return nil, err
	}
	s.logger.Info("shift opened", zap.String("shift_id", shift.ID))
	return shift, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Shift, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Shift, error) {
	return s.repo.List(ctx)
}

// Close ends the shift. Closing a closed shift fails.
func (s *Service) Close(ctx context.Context, id string) (*domain.Shift, error) {
	shift, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	closed, err := domain.CloseShift(*shift)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, closed.Status); err != nil {
		return nil, err
	}
	s.logger.Info("shift closed", zap.String("shift_id", id), zap.Int("receipts", len(closed.Receipts)))
	return &closed, nil
}

// AddReceipt appends receipt to the ledger of an open shift.
func (s *Service) AddReceipt(ctx context.Context, shiftID string, receipt domain.Receipt) (*domain.Shift, error) {
	shift, err := s.repo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	attached, err := domain.AttachReceipt(*shift, receipt)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.AddReceipt(ctx, attached)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("receipt attached", zap.String("shift_id", shiftID), zap.String("receipt_id", receipt.ID))
	return saved, nil
}
