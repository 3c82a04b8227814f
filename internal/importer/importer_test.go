package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"retail-checkout/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) UpsertByBarcode(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,barcode,price,discount
Milk,4860001,2.50,
Bread, 4860002 ,1.20,10

Cheese,4860003,12`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, nil)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(repo.items) != 3 {
		t.Fatalf("expected 3 products imported, got %d (%d saved)", count, len(repo.items))
	}

	milk := repo.items[0]
	if milk.Name != "Milk" || milk.Barcode != "4860001" || milk.UnitPrice != 2.5 || milk.Discount != nil {
		t.Fatalf("unexpected product data: %+v", milk)
	}
	bread := repo.items[1]
	if bread.Barcode != "4860002" || bread.Discount == nil || *bread.Discount != 10 {
		t.Fatalf("unexpected product data: %+v", bread)
	}
	if repo.items[2].UnitPrice != 12 {
		t.Fatalf("expected price 12, got %v", repo.items[2].UnitPrice)
	}
}

func TestCSVImporter_HeaderOrderAndCase(t *testing.T) {
	csvData := "Price,Barcode,Name\n3,111,Tea\n"
	repo := &stubProductRepo{}

	count, err := NewCSVImporter(strings.NewReader(csvData), repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 || repo.items[0].Name != "Tea" || repo.items[0].UnitPrice != 3 {
		t.Fatalf("unexpected import %+v", repo.items)
	}
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("name,price\nTea,3\n"), &stubProductRepo{}, nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "barcode") {
		t.Fatalf("expected missing barcode column error, got %v", err)
	}
}

func TestCSVImporter_BadRowStops(t *testing.T) {
	csvData := `name,barcode,price,discount
Milk,1,2,
Bread,2,abc,
Cheese,3,5,`
	repo := &stubProductRepo{}

	count, err := NewCSVImporter(strings.NewReader(csvData), repo, nil).Run(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line number in error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rows before the bad one to be kept, got %d", count)
	}

	_, err = NewCSVImporter(strings.NewReader("name,barcode,price,discount\nMilk,1,2,150\n"), repo, nil).Run(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected discount validation error, got %v", err)
	}
}

func TestCSVImporter_RepoError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCSVImporter(strings.NewReader("name,barcode,price\nTea,1,3\n"), &stubProductRepo{err: boom}, nil).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
