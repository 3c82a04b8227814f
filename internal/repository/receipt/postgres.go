package receipt

import (
	"context"
	"fmt"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("receipt_repo")}
}

const selectReceipt = `
SELECT id::text, shift_id::text, total::float8, discount_total::float8, status, created_at
FROM receipts
`

func (r *postgresRepo) Create(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	const q = `
INSERT INTO receipts (id, shift_id, total, discount_total, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, shift_id::text, total::float8, discount_total::float8, status, created_at
`
	id := receipt.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}
	var created domain.Receipt
	err := r.pool.QueryRow(ctx, q, id, receipt.ShiftID, receipt.Total, receipt.DiscountTotal, receipt.Status).Scan(
		&created.ID, &created.ShiftID, &created.Total, &created.DiscountTotal, &created.Status, &created.CreatedAt,
	)
	if err != nil {
		r.logger.Error("create failed", zap.String("shift_id", receipt.ShiftID), zap.Error(err))
		return nil, err
	}
	created.Items = []domain.LineItem{}
	r.logger.Debug("created", zap.String("receipt_id", created.ID), zap.String("shift_id", created.ShiftID))
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Receipt, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	receipts, err := r.fetch(ctx, selectReceipt+`WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("get failed", zap.String("receipt_id", id), zap.Error(err))
		return nil, err
	}
	if len(receipts) == 0 {
		r.logger.Debug("get not found", zap.String("receipt_id", id))
		return nil, domain.ErrNotFound
	}
	return &receipts[0], nil
}

// GetMany returns the receipts with the given ids in the order of ids.
// Unknown ids are skipped.
func (r *postgresRepo) GetMany(ctx context.Context, ids []string) ([]domain.Receipt, error) {
	if len(ids) == 0 {
		return []domain.Receipt{}, nil
	}
	receipts, err := r.fetch(ctx, selectReceipt+`WHERE id::text = ANY($1::text[])`, ids)
	if err != nil {
		r.logger.Error("get many failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	byID := make(map[string]domain.Receipt, len(receipts))
	for _, rc := range receipts {
		byID[rc.ID] = rc
	}
	ordered := make([]domain.Receipt, 0, len(ids))
	for _, id := range ids {
		if rc, ok := byID[id]; ok {
			ordered = append(ordered, rc)
		}
	}
	return ordered, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Receipt, error) {
	receipts, err := r.fetch(ctx, selectReceipt+`ORDER BY created_at`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed", zap.Int("count", len(receipts)))
	return receipts, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("delete failed", zap.String("receipt_id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug("deleted", zap.String("receipt_id", id))
	return nil
}

func (r *postgresRepo) AddProduct(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	if err := r.saveLines(ctx, receipt); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, receipt.ID)
}

func (r *postgresRepo) DeleteItem(ctx context.Context, receipt domain.Receipt) error {
	return r.saveLines(ctx, receipt)
}

// Settle stores the receipt's lines, totals and status and appends it to
// the ledger of its shift in one transaction.
func (r *postgresRepo) Settle(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	if _, err := uuid.Parse(receipt.ID); err != nil {
		return nil, domain.ErrNotFound
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := r.writeLines(ctx, tx, receipt); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE receipts SET status = $2 WHERE id = $1`, receipt.ID, receipt.Status); err != nil {
		r.logger.Error("settle: update status failed", zap.String("receipt_id", receipt.ID), zap.Error(err))
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO shift_receipts (shift_id, receipt_id, position)
SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
FROM shift_receipts
WHERE shift_id = $1
ON CONFLICT (shift_id, receipt_id) DO NOTHING
`, receipt.ShiftID, receipt.ID); err != nil {
		r.logger.Error("settle: ledger append failed",
			zap.String("receipt_id", receipt.ID),
			zap.String("shift_id", receipt.ShiftID),
			zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug("settled", zap.String("receipt_id", receipt.ID), zap.String("shift_id", receipt.ShiftID))
	return r.GetByID(ctx, receipt.ID)
}

// saveLines replaces the stored lines of the receipt and its totals.
func (r *postgresRepo) saveLines(ctx context.Context, receipt domain.Receipt) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.writeLines(ctx, tx, receipt); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Debug("lines saved", zap.String("receipt_id", receipt.ID), zap.Int("lines", len(receipt.Items)))
	return nil
}

func (r *postgresRepo) writeLines(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error {
	cmd, err := tx.Exec(ctx, `
UPDATE receipts
SET total = $2, discount_total = $3
WHERE id = $1
`, receipt.ID, receipt.Price(), receipt.DiscountTotal)
	if err != nil {
		r.logger.Error("save lines: update totals failed", zap.String("receipt_id", receipt.ID), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM receipt_items WHERE receipt_id = $1`, receipt.ID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, item := range receipt.Items {
		kind, data, err := domain.EncodeItem(item)
		if err != nil {
			return err
		}
		batch.Queue(`
INSERT INTO receipt_items (receipt_id, position, item_id, item_type, item_data)
VALUES ($1, $2, $3, $4, $5)
`, receipt.ID, i, item.LineInfo().ID, string(kind), data)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			r.logger.Error("save lines: insert failed", zap.String("receipt_id", receipt.ID), zap.Error(err))
			return err
		}
	}
	return nil
}

func (r *postgresRepo) fetch(ctx context.Context, query string, args ...interface{}) ([]domain.Receipt, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	receipts := []domain.Receipt{}
	index := map[string]int{}
	for rows.Next() {
		var rc domain.Receipt
		if err := rows.Scan(&rc.ID, &rc.ShiftID, &rc.Total, &rc.DiscountTotal, &rc.Status, &rc.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		rc.Items = []domain.LineItem{}
		index[rc.ID] = len(receipts)
		receipts = append(receipts, rc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return receipts, nil
	}

	ids := make([]string, 0, len(receipts))
	for _, rc := range receipts {
		ids = append(ids, rc.ID)
	}
	itemRows, err := r.pool.Query(ctx, `
SELECT receipt_id::text, item_type, item_data
FROM receipt_items
WHERE receipt_id::text = ANY($1::text[])
ORDER BY receipt_id, position
`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			receiptID string
			kind      string
			data      []byte
		)
		if err := itemRows.Scan(&receiptID, &kind, &data); err != nil {
			return nil, err
		}
		item, err := domain.DecodeItem(domain.ItemKind(kind), data)
		if err != nil {
			return nil, fmt.Errorf("receipt %s: %w", receiptID, err)
		}
		i := index[receiptID]
		receipts[i].Items = append(receipts[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return receipts, nil
}
