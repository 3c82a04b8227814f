package report

import (
	"context"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

type shiftRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	List(ctx context.Context) ([]domain.Shift, error)
}

type Service struct {
	shifts shiftRepo
	logger *zap.Logger
}

func New(shifts shiftRepo, logger *zap.Logger) *Service {
	return &Service{shifts: shifts, logger: logging.OrNop(logger).Named("report_service")}
}

// X reports across every shift.
func (s *Service) X(ctx context.Context) (domain.Report, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	r := domain.BuildReport(shifts...)
	s.logger.Debug("x report", zap.Int("shifts", len(shifts)), zap.Int("receipts", r.NumberOfReceipts))
	return r, nil
}

// Z reports on one shift.
func (s *Service) Z(ctx context.Context, shiftID string) (domain.Report, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		return domain.Report{}, err
	}
	r := domain.BuildReport(*shift)
	s.logger.Debug("z report", zap.String("shift_id", shiftID), zap.Int("receipts", r.NumberOfReceipts))
	return r, nil
}
