package shift

import (
	"context"
	"errors"
	"testing"

	"retail-checkout/internal/domain"
)

type stubRepo struct {
	shift        *domain.Shift
	lastCreate   domain.Shift
	lastStatusID string
	lastStatus   *bool
	lastLedger   domain.Shift
}

func (s *stubRepo) Create(_ context.Context, shift domain.Shift) (*domain.Shift, error) {
	s.lastCreate = shift
	shift.ID = "s-new"
	return &shift, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Shift, error) {
	if s.shift == nil {
		return nil, domain.ErrNotFound
	}
	shift := *s.shift
	return &shift, nil
}

func (s *stubRepo) List(_ context.Context) ([]domain.Shift, error) {
	return []domain.Shift{}, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id string, status bool) error {
	s.lastStatusID = id
	s.lastStatus = &status
	return nil
}

func (s *stubRepo) AddReceipt(_ context.Context, shift domain.Shift) (*domain.Shift, error) {
	s.lastLedger = shift
	return &shift, nil
}

func TestCreateOpensShift(t *testing.T) {
	repo := &stubRepo{}
	got, err := New(repo, nil).Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s-new" || !repo.lastCreate.Status {
		t.Fatalf("unexpected shift %+v", got)
	}
}

func TestCloseTransitionsOnce(t *testing.T) {
	repo := &stubRepo{shift: &domain.Shift{ID: "s1", Status: true}}
	svc := New(repo, nil)

	got, err := svc.Close(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status || repo.lastStatus == nil || *repo.lastStatus || repo.lastStatusID != "s1" {
		t.Fatalf("shift should be closed")
	}

	repo.shift = got
	repo.lastStatus = nil
	if _, err := svc.Close(context.Background(), "s1"); !errors.Is(err, domain.ErrShiftClosed) {
		t.Fatalf("expected shift closed, got %v", err)
	}
	if repo.lastStatus != nil {
		t.Fatalf("closed shift must not be updated")
	}
}

func TestAddReceipt(t *testing.T) {
	repo := &stubRepo{shift: &domain.Shift{ID: "s1", Status: true, Receipts: []domain.Receipt{{ID: "r0"}}}}
	svc := New(repo, nil)

	got, err := svc.AddReceipt(context.Background(), "s1", domain.Receipt{ID: "r1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Receipts) != 2 || repo.lastLedger.Receipts[1].ID != "r1" {
		t.Fatalf("unexpected ledger %+v", repo.lastLedger.Receipts)
	}

	repo.shift = &domain.Shift{ID: "s1", Status: false}
	if _, err := svc.AddReceipt(context.Background(), "s1", domain.Receipt{ID: "r2"}); !errors.Is(err, domain.ErrShiftClosed) {
		t.Fatalf("expected shift closed, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	if _, err := New(&stubRepo{}, nil).Get(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
