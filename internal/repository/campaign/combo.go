package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type comboRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewComboPostgres(pool *pgxpool.Pool, logger *zap.Logger) ComboRepository {
	return &comboRepo{pool: pool, logger: logging.OrNop(logger).Named("combo_campaign_repo")}
}

const selectCombo = `
SELECT id::text, discount::float8, products
FROM combo_campaigns
`

func scanCombo(row pgx.Row) (*domain.ComboCampaign, error) {
	c := domain.ComboCampaign{CampaignType: domain.CampaignCombo}
	var data []byte
	if err := row.Scan(&c.ID, &c.Discount, &data); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &c.Products); err != nil {
		return nil, fmt.Errorf("combo %s products: %w", c.ID, err)
	}
	if c.Products == nil {
		c.Products = []domain.ProductForReceipt{}
	}
	return &c, nil
}

func (r *comboRepo) Create(ctx context.Context, campaign domain.ComboCampaign) (*domain.ComboCampaign, error) {
	const q = `
INSERT INTO combo_campaigns (id, discount, products)
VALUES ($1, $2, $3)
RETURNING id::text, discount::float8, products
`
	id := campaign.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}
	products := campaign.Products
	if products == nil {
		products = []domain.ProductForReceipt{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	created, err := scanCombo(r.pool.QueryRow(ctx, q, id, campaign.Discount, data))
	if err != nil {
		r.logger.Error("create failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("created", zap.String("campaign_id", created.ID), zap.Int("products", len(created.Products)))
	return created, nil
}

func (r *comboRepo) GetByID(ctx context.Context, id string) (*domain.ComboCampaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := scanCombo(r.pool.QueryRow(ctx, selectCombo+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("campaign_id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *comboRepo) List(ctx context.Context) ([]domain.ComboCampaign, error) {
	rows, err := r.pool.Query(ctx, selectCombo+`ORDER BY created_at`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.ComboCampaign{}
	for rows.Next() {
		c, err := scanCombo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *comboRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.logger, "combo_campaigns", id)
}

// AddProduct appends line to the combo's product list.
func (r *comboRepo) AddProduct(ctx context.Context, campaignID string, line domain.ProductForReceipt) (*domain.ComboCampaign, error) {
	const q = `
UPDATE combo_campaigns
SET products = products || jsonb_build_array($2::jsonb)
WHERE id = $1
RETURNING id::text, discount::float8, products
`
	if _, err := uuid.Parse(campaignID); err != nil {
		return nil, domain.ErrNotFound
	}
	data, err := json.Marshal(line)
	if err != nil {
		return nil, err
	}
	c, err := scanCombo(r.pool.QueryRow(ctx, q, campaignID, data))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("add product failed", zap.String("campaign_id", campaignID), zap.String("product_id", line.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product added", zap.String("campaign_id", campaignID), zap.String("product_id", line.ID))
	return c, nil
}
