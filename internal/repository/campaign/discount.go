package campaign

import (
	"context"
	"errors"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type discountRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewDiscountPostgres(pool *pgxpool.Pool, logger *zap.Logger) DiscountRepository {
	return &discountRepo{pool: pool, logger: logging.OrNop(logger).Named("discount_campaign_repo")}
}

const selectDiscount = `
SELECT c.id::text, c.discount::float8,
       COALESCE(array_agg(p.product_id::text ORDER BY p.product_id) FILTER (WHERE p.product_id IS NOT NULL), '{}')
FROM discount_campaigns c
LEFT JOIN discount_campaign_products p ON p.campaign_id = c.id
`

func scanDiscount(row pgx.Row) (*domain.DiscountCampaign, error) {
	c := domain.DiscountCampaign{CampaignType: domain.CampaignDiscount}
	if err := row.Scan(&c.ID, &c.Discount, &c.Products); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *discountRepo) Create(ctx context.Context, campaign domain.DiscountCampaign) (*domain.DiscountCampaign, error) {
	id := campaign.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO discount_campaigns (id, discount) VALUES ($1, $2)`, id, campaign.Discount); err != nil {
		r.logger.Error("create failed", zap.Error(err))
		return nil, err
	}
	for _, productID := range campaign.Products {
		if _, err := tx.Exec(ctx, `
INSERT INTO discount_campaign_products (campaign_id, product_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, id, productID); err != nil {
			r.logger.Error("create: link product failed", zap.String("product_id", productID), zap.Error(err))
			return nil, mapProductRef(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug("created", zap.String("campaign_id", id), zap.Int("products", len(campaign.Products)))
	return r.GetByID(ctx, id)
}

func (r *discountRepo) GetByID(ctx context.Context, id string) (*domain.DiscountCampaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := scanDiscount(r.pool.QueryRow(ctx, selectDiscount+`WHERE c.id = $1 GROUP BY c.id`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("campaign_id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *discountRepo) List(ctx context.Context) ([]domain.DiscountCampaign, error) {
	rows, err := r.pool.Query(ctx, selectDiscount+`GROUP BY c.id ORDER BY c.created_at`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.DiscountCampaign{}
	for rows.Next() {
		c, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *discountRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.logger, "discount_campaigns", id)
}

func (r *discountRepo) GetByProduct(ctx context.Context, productID string) (*domain.DiscountCampaign, error) {
	const q = `
SELECT c.id::text
FROM discount_campaigns c
JOIN discount_campaign_products p ON p.campaign_id = c.id
WHERE p.product_id = $1
ORDER BY c.discount DESC, c.created_at
LIMIT 1
`
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	var id string
	if err := r.pool.QueryRow(ctx, q, productID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get by product failed", zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *discountRepo) AddProduct(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error) {
	if _, err := uuid.Parse(campaignID); err != nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO discount_campaign_products (campaign_id, product_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, campaignID, productID)
	if err != nil {
		r.logger.Error("add product failed", zap.String("campaign_id", campaignID), zap.String("product_id", productID), zap.Error(err))
		return nil, mapProductRef(err)
	}
	r.logger.Debug("product added", zap.String("campaign_id", campaignID), zap.String("product_id", productID))
	return r.GetByID(ctx, campaignID)
}

func (r *discountRepo) DeleteProduct(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error) {
	if _, err := uuid.Parse(campaignID); err != nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM discount_campaign_products
WHERE campaign_id = $1 AND product_id = $2
`, campaignID, productID)
	if err != nil {
		r.logger.Error("delete product failed", zap.String("campaign_id", campaignID), zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Debug("product removed", zap.String("campaign_id", campaignID), zap.String("product_id", productID))
	return r.GetByID(ctx, campaignID)
}

// mapProductRef turns a foreign key violation on a product or campaign
// reference into ErrNotFound.
func mapProductRef(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return domain.ErrNotFound
	}
	return err
}

func deleteByID(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger, table, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := pool.Exec(ctx, `DELETE FROM `+pgx.Identifier{table}.Sanitize()+` WHERE id = $1`, id)
	if err != nil {
		logger.Error("delete failed", zap.String("campaign_id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	logger.Debug("deleted", zap.String("campaign_id", id))
	return nil
}
