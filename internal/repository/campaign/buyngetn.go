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

type buyNGetNRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewBuyNGetNPostgres(pool *pgxpool.Pool, logger *zap.Logger) BuyNGetNRepository {
	return &buyNGetNRepo{pool: pool, logger: logging.OrNop(logger).Named("gift_campaign_repo")}
}

const selectBuyNGetN = `
SELECT id::text, buy_product, gift_product
FROM buy_n_get_n_campaigns
`

func scanBuyNGetN(row pgx.Row) (*domain.BuyNGetNCampaign, error) {
	c := domain.BuyNGetNCampaign{CampaignType: domain.CampaignBuyNGetN}
	var buy, gift []byte
	if err := row.Scan(&c.ID, &buy, &gift); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(buy, &c.BuyProduct); err != nil {
		return nil, fmt.Errorf("campaign %s buy product: %w", c.ID, err)
	}
	if err := json.Unmarshal(gift, &c.GiftProduct); err != nil {
		return nil, fmt.Errorf("campaign %s gift product: %w", c.ID, err)
	}
	return &c, nil
}

func (r *buyNGetNRepo) Create(ctx context.Context, campaign domain.BuyNGetNCampaign) (*domain.BuyNGetNCampaign, error) {
	const q = `
INSERT INTO buy_n_get_n_campaigns (id, buy_product, gift_product)
VALUES ($1, $2, $3)
RETURNING id::text, buy_product, gift_product
`
	id := campaign.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}
	buy, err := json.Marshal(campaign.BuyProduct)
	if err != nil {
		return nil, err
	}
	gift, err := json.Marshal(campaign.GiftProduct)
	if err != nil {
		return nil, err
	}
	created, err := scanBuyNGetN(r.pool.QueryRow(ctx, q, id, buy, gift))
	if err != nil {
		r.logger.Error("create failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("created", zap.String("campaign_id", created.ID),
		zap.String("buy_product_id", created.BuyProduct.ID),
		zap.String("gift_product_id", created.GiftProduct.ID))
	return created, nil
}

func (r *buyNGetNRepo) GetByID(ctx context.Context, id string) (*domain.BuyNGetNCampaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := scanBuyNGetN(r.pool.QueryRow(ctx, selectBuyNGetN+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("campaign_id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *buyNGetNRepo) List(ctx context.Context) ([]domain.BuyNGetNCampaign, error) {
	rows, err := r.pool.Query(ctx, selectBuyNGetN+`ORDER BY created_at`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.BuyNGetNCampaign{}
	for rows.Next() {
		c, err := scanBuyNGetN(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *buyNGetNRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.logger, "buy_n_get_n_campaigns", id)
}
