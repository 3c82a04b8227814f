package product

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

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("product_repo")}
}

const selectProduct = `
SELECT id::text, name, barcode, price::float8, discount::float8, created_at
FROM products
`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.UnitPrice, &p.Discount, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, barcode, price, discount)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, name, barcode, price::float8, discount::float8, created_at
`
	id := product.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}
	created, err := scanProduct(r.pool.QueryRow(ctx, q, id, product.Name, product.Barcode, product.UnitPrice, product.Discount))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateBarcode
		}
		r.logger.Error("create failed", zap.String("barcode", product.Barcode), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("created", zap.String("product_id", created.ID), zap.String("barcode", created.Barcode))
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProduct+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("get not found", zap.String("product_id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+`ORDER BY created_at, name`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list rows failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error) {
	const q = `
UPDATE products SET price = $2
WHERE id = $1
RETURNING id::text, name, barcode, price::float8, discount::float8, created_at
`
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id, price))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("update price failed", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("price updated", zap.String("product_id", id), zap.Float64("price", price))
	return p, nil
}

func (r *postgresRepo) HasBarcode(ctx context.Context, barcode string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE barcode = $1)`, barcode).Scan(&exists)
	if err != nil {
		r.logger.Error("barcode lookup failed", zap.String("barcode", barcode), zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) UpsertByBarcode(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, barcode, price, discount)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (barcode) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    discount = EXCLUDED.discount
RETURNING id::text, name, barcode, price::float8, discount::float8, created_at
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, uuid.NewString(), product.Name, product.Barcode, product.UnitPrice, product.Discount))
	if err != nil {
		r.logger.Error("upsert failed", zap.String("barcode", product.Barcode), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("upserted", zap.String("product_id", p.ID), zap.String("barcode", p.Barcode))
	return p, nil
}
