package campaign

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"retail-checkout/internal/domain"
)

type stubDiscounts struct {
	campaigns     map[string]domain.DiscountCampaign
	byProduct     *domain.DiscountCampaign
	created       domain.DiscountCampaign
	lastDeleted   string
	lastAddedID   string
	lastProductID string
	getCalls      int
}

func (s *stubDiscounts) Create(_ context.Context, c domain.DiscountCampaign) (*domain.DiscountCampaign, error) {
	s.created = c
	c.ID = "d-new"
	return &c, nil
}

func (s *stubDiscounts) GetByID(_ context.Context, id string) (*domain.DiscountCampaign, error) {
	s.getCalls++
	if c, ok := s.campaigns[id]; ok {
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubDiscounts) List(_ context.Context) ([]domain.DiscountCampaign, error) {
	out := []domain.DiscountCampaign{}
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubDiscounts) Delete(_ context.Context, id string) error {
	s.lastDeleted = id
	return nil
}

func (s *stubDiscounts) GetByProduct(_ context.Context, _ string) (*domain.DiscountCampaign, error) {
	if s.byProduct == nil {
		return nil, domain.ErrNotFound
	}
	return s.byProduct, nil
}

func (s *stubDiscounts) AddProduct(_ context.Context, campaignID, productID string) (*domain.DiscountCampaign, error) {
	s.lastAddedID = campaignID
	s.lastProductID = productID
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Products = append(c.Products, productID)
	return &c, nil
}

func (s *stubDiscounts) DeleteProduct(_ context.Context, campaignID, productID string) (*domain.DiscountCampaign, error) {
	s.lastAddedID = campaignID
	s.lastProductID = productID
	return nil, domain.ErrNotFound
}

type stubReceiptDiscounts struct {
	campaigns  map[string]domain.ReceiptCampaign
	onAmount   *domain.ReceiptCampaign
	lastAmount float64
	getCalls   int
}

func (s *stubReceiptDiscounts) Create(_ context.Context, c domain.ReceiptCampaign) (*domain.ReceiptCampaign, error) {
	c.ID = "r-new"
	return &c, nil
}

func (s *stubReceiptDiscounts) GetByID(_ context.Context, id string) (*domain.ReceiptCampaign, error) {
	s.getCalls++
	if c, ok := s.campaigns[id]; ok {
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubReceiptDiscounts) List(_ context.Context) ([]domain.ReceiptCampaign, error) {
	return []domain.ReceiptCampaign{}, nil
}

func (s *stubReceiptDiscounts) Delete(_ context.Context, _ string) error { return nil }

func (s *stubReceiptDiscounts) GetDiscountOnAmount(_ context.Context, amount float64) (*domain.ReceiptCampaign, error) {
	s.lastAmount = amount
	if s.onAmount == nil {
		return nil, domain.ErrNotFound
	}
	return s.onAmount, nil
}

type stubCombos struct {
	campaigns   map[string]domain.ComboCampaign
	created     domain.ComboCampaign
	lastLine    domain.ProductForReceipt
	lastDeleted string
	getCalls    int
}

func (s *stubCombos) Create(_ context.Context, c domain.ComboCampaign) (*domain.ComboCampaign, error) {
	s.created = c
	c.ID = "c-new"
	return &c, nil
}

func (s *stubCombos) GetByID(_ context.Context, id string) (*domain.ComboCampaign, error) {
	s.getCalls++
	if c, ok := s.campaigns[id]; ok {
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCombos) List(_ context.Context) ([]domain.ComboCampaign, error) {
	out := []domain.ComboCampaign{}
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCombos) Delete(_ context.Context, id string) error {
	s.lastDeleted = id
	return nil
}

func (s *stubCombos) AddProduct(_ context.Context, campaignID string, line domain.ProductForReceipt) (*domain.ComboCampaign, error) {
	s.lastLine = line
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Products = append(c.Products, line)
	return &c, nil
}

type stubGifts struct {
	created  domain.BuyNGetNCampaign
	getCalls int
}

func (s *stubGifts) Create(_ context.Context, c domain.BuyNGetNCampaign) (*domain.BuyNGetNCampaign, error) {
	s.created = c
	c.ID = "g-new"
	return &c, nil
}

func (s *stubGifts) GetByID(_ context.Context, _ string) (*domain.BuyNGetNCampaign, error) {
	s.getCalls++
	return nil, domain.ErrNotFound
}

func (s *stubGifts) List(_ context.Context) ([]domain.BuyNGetNCampaign, error) {
	return []domain.BuyNGetNCampaign{}, nil
}

func (s *stubGifts) Delete(_ context.Context, _ string) error { return nil }

type stubProducts struct {
	products map[string]domain.Product
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

type fixture struct {
	svc       *Service
	discounts *stubDiscounts
	receipts  *stubReceiptDiscounts
	combos    *stubCombos
	gifts     *stubGifts
}

func newFixture() fixture {
	f := fixture{
		discounts: &stubDiscounts{campaigns: map[string]domain.DiscountCampaign{}},
		receipts:  &stubReceiptDiscounts{campaigns: map[string]domain.ReceiptCampaign{}},
		combos:    &stubCombos{campaigns: map[string]domain.ComboCampaign{}},
		gifts:     &stubGifts{},
	}
	products := &stubProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Tea", UnitPrice: 100},
		"p2": {ID: "p2", Name: "Cake", UnitPrice: 50},
	}}
	f.svc = New(Repos{
		Discounts:        f.discounts,
		ReceiptDiscounts: f.receipts,
		Combos:           f.combos,
		BuyNGetN:         f.gifts,
		Products:         products,
	}, nil)
	return f
}

func TestLookupOrder(t *testing.T) {
	want := []domain.CampaignType{
		domain.CampaignDiscount,
		domain.CampaignCombo,
		domain.CampaignReceiptDiscount,
		domain.CampaignBuyNGetN,
	}
	if !reflect.DeepEqual(LookupOrder, want) {
		t.Fatalf("unexpected lookup order %v", LookupOrder)
	}
}

func TestGetFindsComboAfterDiscountMiss(t *testing.T) {
	f := newFixture()
	f.combos.campaigns["c1"] = domain.ComboCampaign{ID: "c1", Discount: 20}

	got, err := f.svc.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type() != domain.CampaignCombo || got.CampaignID() != "c1" {
		t.Fatalf("unexpected campaign %+v", got)
	}
	if f.discounts.getCalls != 1 || f.combos.getCalls != 1 {
		t.Fatalf("expected discount then combo lookups, got %d/%d", f.discounts.getCalls, f.combos.getCalls)
	}
	if f.receipts.getCalls != 0 || f.gifts.getCalls != 0 {
		t.Fatalf("chain should stop at the combo store")
	}
}

func TestGetNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCampaignNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
	if f.gifts.getCalls != 1 {
		t.Fatalf("expected every store to be asked")
	}
}

func TestDeleteUsesOwningStore(t *testing.T) {
	f := newFixture()
	f.combos.campaigns["c1"] = domain.ComboCampaign{ID: "c1", Discount: 20}

	if err := f.svc.Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.combos.lastDeleted != "c1" || f.discounts.lastDeleted != "" {
		t.Fatalf("deleted from wrong store: combo=%q discount=%q", f.combos.lastDeleted, f.discounts.lastDeleted)
	}
	if err := f.svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
}

func TestCreateDiscountValidation(t *testing.T) {
	f := newFixture()
	for _, d := range []float64{0, -5, 101} {
		if _, err := f.svc.CreateDiscount(context.Background(), d, []string{"p1"}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("discount %v: expected validation error, got %v", d, err)
		}
	}
	if _, err := f.svc.CreateDiscount(context.Background(), 10, []string{"nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected unknown product to fail, got %v", err)
	}
	got, err := f.svc.CreateDiscount(context.Background(), 10, []string{"p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "d-new" || f.discounts.created.CampaignType != domain.CampaignDiscount {
		t.Fatalf("unexpected campaign %+v", got)
	}
}

func TestCreateComboBuildsLines(t *testing.T) {
	f := newFixture()
	got, err := f.svc.CreateCombo(context.Background(), 20, []domain.NumProduct{
		{ProductID: "p1", Num: 1},
		{ProductID: "p2", Num: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Products) != 2 || got.Price() != 150 || got.RealPrice() != 120 {
		t.Fatalf("unexpected combo %+v", got)
	}
}

func TestCreateBuyNGetNMarksGiftFree(t *testing.T) {
	f := newFixture()
	got, err := f.svc.CreateBuyNGetN(context.Background(),
		domain.NumProduct{ProductID: "p1", Num: 2},
		domain.NumProduct{ProductID: "p2", Num: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BuyProduct.Total != 200 || got.GiftProduct.Total != 50 {
		t.Fatalf("unexpected lines %+v", got)
	}
	if got.GiftProduct.DiscountTotal == nil || *got.GiftProduct.DiscountTotal != 0 {
		t.Fatalf("gift line should be free, got %v", got.GiftProduct.DiscountTotal)
	}
	if got.RealPrice() != 200 || got.Price() != 250 {
		t.Fatalf("unexpected prices %v/%v", got.RealPrice(), got.Price())
	}
	if _, err := f.svc.CreateBuyNGetN(context.Background(),
		domain.NumProduct{ProductID: "p1", Num: 0},
		domain.NumProduct{ProductID: "p2", Num: 1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddProductToCombo(t *testing.T) {
	f := newFixture()
	f.combos.campaigns["c1"] = domain.ComboCampaign{ID: "c1", Discount: 10}

	got, err := f.svc.AddProductToCombo(context.Background(), "c1", "p2", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.combos.lastLine.ID != "p2" || f.combos.lastLine.Quantity != 3 || f.combos.lastLine.Price() != 150 {
		t.Fatalf("unexpected line %+v", f.combos.lastLine)
	}
	if len(got.Products) != 1 {
		t.Fatalf("expected line appended, got %+v", got.Products)
	}
	if _, err := f.svc.AddProductToCombo(context.Background(), "missing", "p2", 1); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
}

func TestAddProductToDiscount(t *testing.T) {
	f := newFixture()
	f.discounts.campaigns["d1"] = domain.DiscountCampaign{ID: "d1", Discount: 10}

	got, err := f.svc.AddProductToDiscount(context.Background(), "d1", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Contains("p1") || f.discounts.lastProductID != "p1" {
		t.Fatalf("product not linked: %+v", got)
	}
	if _, err := f.svc.RemoveProductFromDiscount(context.Background(), "d1", "p2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveForProduct(t *testing.T) {
	f := newFixture()
	p := domain.Product{ID: "p1", UnitPrice: 9.99}

	plain, err := f.svc.ResolveForProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d, ok := plain.DiscountedPrice(); !ok || d != plain.Price() {
		t.Fatalf("identity decorator expected, got %v %v", d, ok)
	}

	f.discounts.byProduct = &domain.DiscountCampaign{ID: "d1", Discount: 15, Products: []string{"p1"}}
	discounted, err := f.svc.ResolveForProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d, _ := discounted.DiscountedPrice(); d != 8.49 {
		t.Fatalf("expected 8.49, got %v", d)
	}

	f.discounts.byProduct = &domain.DiscountCampaign{ID: "d2", Discount: 15, Products: []string{"p2"}}
	unlisted, err := f.svc.ResolveForProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d, _ := unlisted.DiscountedPrice(); d != 9.99 {
		t.Fatalf("campaign not listing p1 must not discount it, got %v", d)
	}
}

func TestResolveForReceipt(t *testing.T) {
	f := newFixture()
	r := &domain.Receipt{ID: "r1", Items: []domain.LineItem{
		domain.Product{ID: "p1", UnitPrice: 650}.LineFor(1),
	}}

	none, err := f.svc.ResolveForReceipt(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none.DiscountTotal() != nil {
		t.Fatalf("expected no discount total")
	}

	f.receipts.onAmount = &domain.ReceiptCampaign{ID: "rc", Total: 600, Discount: 60}
	resolved, err := f.svc.ResolveForReceipt(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.receipts.lastAmount != 650 {
		t.Fatalf("expected lookup by receipt price, got %v", f.receipts.lastAmount)
	}
	if got := resolved.DiscountTotal(); got == nil || *got != -390 {
		t.Fatalf("expected -390, got %v", got)
	}

	f.receipts.onAmount = &domain.ReceiptCampaign{ID: "rc2", Total: 700, Discount: 60}
	above, err := f.svc.ResolveForReceipt(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if above.DiscountTotal() != nil {
		t.Fatalf("campaign above the receipt price must not apply, got %v", *above.DiscountTotal())
	}
}

func TestList(t *testing.T) {
	f := newFixture()
	f.discounts.campaigns["d1"] = domain.DiscountCampaign{ID: "d1"}
	f.combos.campaigns["c1"] = domain.ComboCampaign{ID: "c1"}

	got, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Type() != domain.CampaignDiscount || got[1].Type() != domain.CampaignCombo {
		t.Fatalf("unexpected campaigns %+v", got)
	}
}
