package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"go.uber.org/zap"
)

type ProductWriter interface {
	UpsertByBarcode(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads name,barcode,price[,discount] rows and upserts products
// keyed on barcode.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // discount column is optional
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logging.OrNop(logger).Named("importer"),
	}
}

// Run imports every row and returns how many products were written. It stops
// at the first malformed row; rows before it stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"name", "barcode", "price"} {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.UpsertByBarcode(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Barcode, err)
		}
		imported++
	}

	i.logger.Info("import finished", zap.Int("products", imported))
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:      domain.NoID,
		Name:    pick(record, index, "name"),
		Barcode: pick(record, index, "barcode"),
	}
	if p.Name == "" || p.Barcode == "" {
		return p, domain.Invalid("name and barcode required")
	}

	price, err := strconv.ParseFloat(pick(record, index, "price"), 64)
	if err != nil || price < 0 {
		return p, domain.Invalid(fmt.Sprintf("bad price for %s", p.Barcode))
	}
	p.UnitPrice = price

	if raw := pick(record, index, "discount"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d < 0 || d > 100 {
			return p, domain.Invalid(fmt.Sprintf("bad discount for %s", p.Barcode))
		}
		p.Discount = &d
	}
	return p, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
