package shift

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

type postgresRepo struct {
	pool     *pgxpool.Pool
	receipts ReceiptLoader
	logger   *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, receipts ReceiptLoader, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, receipts: receipts, logger: logging.OrNop(logger).Named("shift_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, shift domain.Shift) (*domain.Shift, error) {
	const q = `
INSERT INTO shifts (id, status)
VALUES ($1, $2)
RETURNING id::text, status, created_at
`
	id := shift.ID
	if id == domain.NoID {
		id = uuid.NewString()
	}
	var created domain.Shift
	if err := r.pool.QueryRow(ctx, q, id, shift.Status).Scan(&created.ID, &created.Status, &created.CreatedAt); err != nil {
		r.logger.Error("create failed", zap.Error(err))
		return nil, err
	}
	created.Receipts = []domain.Receipt{}
	r.logger.Debug("created", zap.String("shift_id", created.ID))
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	var s domain.Shift
	err := r.pool.QueryRow(ctx, `SELECT id::text, status, created_at FROM shifts WHERE id = $1`, id).
		Scan(&s.ID, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("get not found", zap.String("shift_id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("shift_id", id), zap.Error(err))
		return nil, err
	}
	shifts := []domain.Shift{s}
	if err := r.loadLedgers(ctx, shifts); err != nil {
		return nil, err
	}
	return &shifts[0], nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Shift, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, status, created_at FROM shifts ORDER BY created_at`)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	shifts := []domain.Shift{}
	for rows.Next() {
		var s domain.Shift
		if err := rows.Scan(&s.ID, &s.Status, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		shifts = append(shifts, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLedgers(ctx, shifts); err != nil {
		return nil, err
	}
	r.logger.Debug("listed", zap.Int("count", len(shifts)))
	return shifts, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE shifts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error("update status failed", zap.String("shift_id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug("status updated", zap.String("shift_id", id), zap.Bool("status", status))
	return nil
}

// AddReceipt stores the shift ledger. Receipts already on the ledger keep
// their position.
func (r *postgresRepo) AddReceipt(ctx context.Context, shift domain.Shift) (*domain.Shift, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i, rc := range shift.Receipts {
		if _, err := tx.Exec(ctx, `
INSERT INTO shift_receipts (shift_id, receipt_id, position)
VALUES ($1, $2, $3)
ON CONFLICT (shift_id, receipt_id) DO NOTHING
`, shift.ID, rc.ID, i); err != nil {
			r.logger.Error("add receipt failed", zap.String("shift_id", shift.ID), zap.String("receipt_id", rc.ID), zap.Error(err))
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug("ledger saved", zap.String("shift_id", shift.ID), zap.Int("receipts", len(shift.Receipts)))
	return r.GetByID(ctx, shift.ID)
}

func (r *postgresRepo) loadLedgers(ctx context.Context, shifts []domain.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	index := make(map[string]int, len(shifts))
	shiftIDs := make([]string, 0, len(shifts))
	for i := range shifts {
		shifts[i].Receipts = []domain.Receipt{}
		index[shifts[i].ID] = i
		shiftIDs = append(shiftIDs, shifts[i].ID)
	}

	rows, err := r.pool.Query(ctx, `
SELECT shift_id::text, receipt_id::text
FROM shift_receipts
WHERE shift_id::text = ANY($1::text[])
ORDER BY shift_id, position
`, shiftIDs)
	if err != nil {
		return err
	}
	ledger := map[string][]string{}
	var receiptIDs []string
	for rows.Next() {
		var shiftID, receiptID string
		if err := rows.Scan(&shiftID, &receiptID); err != nil {
			rows.Close()
			return err
		}
		ledger[shiftID] = append(ledger[shiftID], receiptID)
		receiptIDs = append(receiptIDs, receiptID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(receiptIDs) == 0 {
		return nil
	}

	receipts, err := r.receipts.GetMany(ctx, receiptIDs)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.Receipt, len(receipts))
	for _, rc := range receipts {
		byID[rc.ID] = rc
	}
	for shiftID, ids := range ledger {
		i := index[shiftID]
		for _, id := range ids {
			if rc, ok := byID[id]; ok {
				shifts[i].Receipts = append(shifts[i].Receipts, rc)
			}
		}
	}
	return nil
}
