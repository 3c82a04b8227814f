package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type productSeed struct {
	Name    string
	Barcode string
	Price   float64
}

// Campaign ids are fixed so re-running the seed leaves one copy of each.
var (
	discountID        = uuid.MustParse("00000000-0000-0000-0000-00000000d001")
	receiptDiscountID = uuid.MustParse("00000000-0000-0000-0000-00000000d002")
	comboID           = uuid.MustParse("00000000-0000-0000-0000-00000000d003")
	buyNGetNID        = uuid.MustParse("00000000-0000-0000-0000-00000000d004")
)

// Apply inserts demo products and one campaign of each type for manual
// testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	logger = logging.OrNop(logger).Named("seed")

	products := []productSeed{
		{Name: "Milk", Barcode: "4860000000011", Price: 3.5},
		{Name: "Bread", Barcode: "4860000000028", Price: 1.2},
		{Name: "Tea", Barcode: "4860000000035", Price: 100},
		{Name: "Cake", Barcode: "4860000000042", Price: 50},
	}

	byName := make(map[string]domain.Product, len(products))
	for _, p := range products {
		saved, err := upsertProduct(ctx, pool, p)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Barcode, err)
		}
		byName[p.Name] = saved
	}

	if err := ensureDiscount(ctx, pool, 10, byName["Milk"].ID); err != nil {
		return fmt.Errorf("discount campaign: %w", err)
	}
	if err := ensureReceiptDiscount(ctx, pool, 5, 100); err != nil {
		return fmt.Errorf("receipt discount campaign: %w", err)
	}
	combo := []domain.ProductForReceipt{byName["Tea"].LineFor(1), byName["Cake"].LineFor(1)}
	if err := ensureCombo(ctx, pool, 20, combo); err != nil {
		return fmt.Errorf("combo campaign: %w", err)
	}
	gift := byName["Bread"].LineFor(1)
	gift.DiscountTotal = new(float64)
	if err := ensureBuyNGetN(ctx, pool, byName["Bread"].LineFor(2), gift); err != nil {
		return fmt.Errorf("buy-n-get-n campaign: %w", err)
	}

	logger.Info("seed applied", zap.Int("products", len(products)), zap.Int("campaigns", 4))
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) (domain.Product, error) {
	const q = `
INSERT INTO products (id, name, barcode, price)
VALUES ($1, $2, $3, $4)
ON CONFLICT (barcode) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price
RETURNING id::text
`
	out := domain.Product{Name: p.Name, Barcode: p.Barcode, UnitPrice: p.Price}
	if err := pool.QueryRow(ctx, q, uuid.NewString(), p.Name, p.Barcode, p.Price).Scan(&out.ID); err != nil {
		return domain.Product{}, err
	}
	return out, nil
}

func ensureDiscount(ctx context.Context, pool *pgxpool.Pool, discount float64, productID string) error {
	if _, err := pool.Exec(ctx,
		`INSERT INTO discount_campaigns (id, discount) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		discountID, discount); err != nil {
		return err
	}
	_, err := pool.Exec(ctx,
		`INSERT INTO discount_campaign_products (campaign_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		discountID, productID)
	return err
}

func ensureReceiptDiscount(ctx context.Context, pool *pgxpool.Pool, discount, total float64) error {
	_, err := pool.Exec(ctx,
		`INSERT INTO receipt_discount_campaigns (id, total, discount) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		receiptDiscountID, total, discount)
	return err
}

func ensureCombo(ctx context.Context, pool *pgxpool.Pool, discount float64, products []domain.ProductForReceipt) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO combo_campaigns (id, discount, products) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		comboID, discount, data)
	return err
}

func ensureBuyNGetN(ctx context.Context, pool *pgxpool.Pool, buy, gift domain.ProductForReceipt) error {
	buyData, err := json.Marshal(buy)
	if err != nil {
		return err
	}
	giftData, err := json.Marshal(gift)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO buy_n_get_n_campaigns (id, buy_product, gift_product) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		buyNGetNID, buyData, giftData)
	return err
}
