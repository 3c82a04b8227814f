package campaign

import (
	"context"
	"errors"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type receiptDiscountRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewReceiptDiscountPostgres(pool *pgxpool.Pool, logger *zap.Logger) ReceiptDiscountRepository {
	return &receiptDiscountRepo{pool: pool, logger: logging.OrNop(logger).Named("receipt_campaign_repo")}
}

const selectReceiptDiscount = `
SELECT id::text, total::float8, discount::float8
FROM receipt_discount_campaigns
`

func scanReceiptDiscount(row pgx.Row) (*domain.ReceiptCampaign, error) {
	c := domain.ReceiptCampaign{CampaignType: domain.CampaignReceiptDiscount}
	if err := row.Scan(&c.ID, &c.Total, &c.Discount); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *receiptDiscountRepo) Create(ctx context.Context, campaign domain.ReceiptCampaign) (*domain.ReceiptCampaign, error) {
	const q = `
INSERT INTO receipt_discount_campaigns (id, total, discount)
VALUES ($1, $2, $3)
RETURNING id::text, total::float8, discount::float8
`
	id := campaign.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}
	created, err := scanReceiptDiscount(r.pool.QueryRow(ctx, q, id, campaign.Total, campaign.Discount))
	if err != nil {
		r.logger.Error("create failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("created", zap.String("campaign_id", created.ID), zap.Float64("total", created.Total))
	return created, nil
}

func (r *receiptDiscountRepo) GetByID(ctx context.Context, id string) (*domain.ReceiptCampaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := scanReceiptDiscount(r.pool.QueryRow(ctx, selectReceiptDiscount+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("campaign_id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *receiptDiscountRepo) List(ctx context.Context) ([]domain.ReceiptCampaign, error) {
	rows, err := r.pool.Query(ctx, selectReceiptDiscount+`ORDER BY created_at`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.ReceiptCampaign{}
	for rows.Next() {
		c, err := scanReceiptDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *receiptDiscountRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.logger, "receipt_discount_campaigns", id)
}

func (r *receiptDiscountRepo) GetDiscountOnAmount(ctx context.Context, amount float64) (*domain.ReceiptCampaign, error) {
	c, err := scanReceiptDiscount(r.pool.QueryRow(ctx, selectReceiptDiscount+`
WHERE total <= $1
ORDER BY total DESC, discount DESC
LIMIT 1
`, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("discount on amount failed", zap.Float64("amount", amount), zap.Error(err))
		return nil, err
	}
	return c, nil
}
