package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/repository"
)

var _ repository.UsageRepository = (*usageRepo)(nil)

type usageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *usageRepo {
	return &usageRepo{pool: pool}
}

func (r *usageRepo) Record(ctx context.Context, rec *model.UsageRecord) error {
	const q = `
INSERT INTO usage_log (id, tg_id, operation, created_at)
VALUES ($1, $2, $3, $4);`

	_, err := r.pool.Exec(ctx, q, rec.ID, rec.TelegramID, rec.Operation, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *usageRepo) CountByTelegramID(ctx context.Context, tgID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM usage_log WHERE tg_id = $1;`

	var count int64
	if err := r.pool.QueryRow(ctx, q, tgID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *usageRepo) TotalsByOperation(ctx context.Context) (map[string]int64, error) {
	const q = `SELECT operation, COUNT(*) FROM usage_log GROUP BY operation;`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var op string
		var n int64
		if err := rows.Scan(&op, &n); err != nil {
			return nil, err
		}
		totals[op] = n
	}
	return totals, rows.Err()
}
