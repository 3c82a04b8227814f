package payment

import (
	"context"
	"errors"
	"testing"

	"retail-checkout/internal/domain"
)

type stubReceipts struct {
	receipt     *domain.Receipt
	settled     *domain.Receipt
	settleErr   error
	settleCalls int
}

func (s *stubReceipts) GetByID(_ context.Context, _ string) (*domain.Receipt, error) {
	if s.receipt == nil {
		return nil, domain.ErrNotFound
	}
	r := *s.receipt
	return &r, nil
}

func (s *stubReceipts) Settle(_ context.Context, r domain.Receipt) (*domain.Receipt, error) {
	s.settleCalls++
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	s.settled = &r
	s.receipt = &r
	return &r, nil
}

type stubShifts struct {
	shift *domain.Shift
}

func (s *stubShifts) GetByID(_ context.Context, _ string) (*domain.Shift, error) {
	if s.shift == nil {
		return nil, domain.ErrNotFound
	}
	return s.shift, nil
}

type stubResolver struct {
	percent *float64
}

func (s *stubResolver) ResolveForReceipt(_ context.Context, r *domain.Receipt) (domain.DiscountedReceipt, error) {
	return domain.DiscountedReceipt{Receipt: r, Percent: s.percent}, nil
}

type stubConverter struct {
	rate     float64
	err      error
	lastFrom string
	lastTo   string
	calls    int
}

func (s *stubConverter) Convert(_ context.Context, from, to string, amount float64) (float64, error) {
	s.calls++
	s.lastFrom = from
	s.lastTo = to
	if s.err != nil {
		return 0, s.err
	}
	return amount * s.rate, nil
}

func receipt(price float64) *domain.Receipt {
	r := domain.NewReceipt("s1")
	r.ID = "r1"
	r.Items = []domain.LineItem{domain.Product{ID: "p1", UnitPrice: price}.LineFor(1)}
	r.Total = price
	return &r
}

func fixture(r *domain.Receipt, conv *stubConverter, pct *float64) (*Service, *stubReceipts, *stubShifts) {
	receipts := &stubReceipts{receipt: r}
	shifts := &stubShifts{shift: &domain.Shift{ID: "s1", Status: true, Receipts: []domain.Receipt{}}}
	return New(receipts, shifts, &stubResolver{percent: pct}, conv, "GEL", nil), receipts, shifts
}

func TestPayInBaseCurrency(t *testing.T) {
	pct := 10.0
	conv := &stubConverter{}
	svc, receipts, _ := fixture(receipt(200), conv, &pct)

	got, err := svc.Pay(context.Background(), "r1", "gel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Amount != 180 || got.Currency != "GEL" || got.ReceiptID != "r1" {
		t.Fatalf("unexpected payment %+v", got)
	}
	if conv.calls != 0 {
		t.Fatalf("no conversion expected for base currency")
	}
	if receipts.settleCalls != 1 || receipts.settled == nil {
		t.Fatalf("expected one settle, got %d", receipts.settleCalls)
	}
	if receipts.settled.Status || receipts.settled.ShiftID != "s1" {
		t.Fatalf("receipt should be settled closed on its shift, got %+v", receipts.settled)
	}
	if receipts.settled.DiscountTotal == nil || *receipts.settled.DiscountTotal != -20 {
		t.Fatalf("expected resolved discount total to be stored, got %+v", receipts.settled)
	}
}

func TestPayConverts(t *testing.T) {
	conv := &stubConverter{rate: 0.5}
	svc, _, _ := fixture(receipt(100), conv, nil)

	got, err := svc.Pay(context.Background(), "r1", "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.lastFrom != "GEL" || conv.lastTo != "USD" {
		t.Fatalf("unexpected conversion %s->%s", conv.lastFrom, conv.lastTo)
	}
	if got.Amount != 50 || got.Currency != "USD" {
		t.Fatalf("unexpected payment %+v", got)
	}
}

func TestPayConversionFailureWritesNothing(t *testing.T) {
	conv := &stubConverter{err: errors.New("timeout")}
	svc, receipts, _ := fixture(receipt(100), conv, nil)

	_, err := svc.Pay(context.Background(), "r1", "USD")
	if !errors.Is(err, domain.ErrCurrencyConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if receipts.settleCalls != 0 {
		t.Fatalf("nothing should be persisted on failure")
	}
}

func TestPaySettleFailureLeavesReceiptOpen(t *testing.T) {
	svc, receipts, _ := fixture(receipt(100), &stubConverter{}, nil)
	receipts.settleErr = errors.New("ledger write failed")

	if _, err := svc.Pay(context.Background(), "r1", "GEL"); err == nil {
		t.Fatalf("expected settle error")
	}
	if receipts.settled != nil || !receipts.receipt.Status {
		t.Fatalf("receipt must stay open when settle fails")
	}

	receipts.settleErr = nil
	got, err := svc.Pay(context.Background(), "r1", "GEL")
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if got.Amount != 100 || receipts.settleCalls != 2 {
		t.Fatalf("unexpected retry payment %+v after %d settles", got, receipts.settleCalls)
	}
}

func TestPayClosedReceipt(t *testing.T) {
	r := receipt(100)
	r.Status = false
	svc, receipts, _ := fixture(r, &stubConverter{}, nil)

	if _, err := svc.Pay(context.Background(), "r1", "GEL"); !errors.Is(err, domain.ErrReceiptClosed) {
		t.Fatalf("expected receipt closed, got %v", err)
	}
	if receipts.settleCalls != 0 {
		t.Fatalf("closed receipt must not be updated")
	}
}

func TestPayClosedShift(t *testing.T) {
	svc, receipts, shifts := fixture(receipt(100), &stubConverter{}, nil)
	shifts.shift.Status = false

	if _, err := svc.Pay(context.Background(), "r1", "GEL"); !errors.Is(err, domain.ErrShiftClosed) {
		t.Fatalf("expected shift closed, got %v", err)
	}
	if receipts.settleCalls != 0 {
		t.Fatalf("receipt must stay open")
	}
}
