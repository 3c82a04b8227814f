package report

import (
	"context"
	"errors"
	"testing"

	"retail-checkout/internal/domain"
)

type stubShifts struct {
	shifts []domain.Shift
}

func (s *stubShifts) GetByID(_ context.Context, id string) (*domain.Shift, error) {
	for _, sh := range s.shifts {
		if sh.ID == id {
			return &sh, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubShifts) List(_ context.Context) ([]domain.Shift, error) {
	return s.shifts, nil
}

func paidReceipt(id, productID string, qty int, price float64) domain.Receipt {
	return domain.Receipt{
		ID:    id,
		Items: []domain.LineItem{domain.Product{ID: productID, UnitPrice: price}.LineFor(qty)},
	}
}

func fixture() *Service {
	return New(&stubShifts{shifts: []domain.Shift{
		{ID: "s1", Receipts: []domain.Receipt{paidReceipt("r1", "p1", 2, 10)}},
		{ID: "s2", Receipts: []domain.Receipt{paidReceipt("r2", "p1", 1, 10), paidReceipt("r3", "p2", 4, 2.5)}},
	}}, nil)
}

func TestXReportSpansShifts(t *testing.T) {
	got, err := fixture().X(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.NumberOfReceipts != 3 || got.Revenue[domain.BaseCurrency] != 40 {
		t.Fatalf("unexpected report %+v", got)
	}
	if len(got.SoldProductCount) != 2 || got.SoldProductCount[0].Num != 3 || got.SoldProductCount[1].Num != 4 {
		t.Fatalf("unexpected counts %+v", got.SoldProductCount)
	}
}

func TestZReportSingleShift(t *testing.T) {
	got, err := fixture().Z(context.Background(), "s2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.NumberOfReceipts != 2 || got.Revenue[domain.BaseCurrency] != 20 {
		t.Fatalf("unexpected report %+v", got)
	}
	if _, err := fixture().Z(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
