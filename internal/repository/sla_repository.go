package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/netdesk/internal/domain"
)

// SLARepository manages SLA reference records.
type SLARepository interface {
	Create(ctx context.Context, sla *domain.SLA) error
	Update(ctx context.Context, sla *domain.SLA) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.SLA, error)
	ListAll(ctx context.Context) ([]domain.SLA, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository instantiates repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

func (r *slaRepository) Create(ctx context.Context, sla *domain.SLA) error {
	const query = `
        INSERT INTO slas (severity, priority, time_limit_hr)
        VALUES ($1, $2, $3)
        RETURNING id`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		sla.Severity, sla.Priority, sla.TimeLimitHr,
	).Scan(&sla.ID)
}

func (r *slaRepository) Update(ctx context.Context, sla *domain.SLA) error {
	const query = `UPDATE slas SET severity=$1, priority=$2, time_limit_hr=$3 WHERE id=$4`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		sla.Severity, sla.Priority, sla.TimeLimitHr, sla.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM slas WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRepository) GetByID(ctx context.Context, id int64) (*domain.SLA, error) {
	var sla domain.SLA
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, severity, priority, time_limit_hr FROM slas WHERE id=$1`, id,
	).Scan(&sla.ID, &sla.Severity, &sla.Priority, &sla.TimeLimitHr); err != nil {
		return nil, err
	}
	return &sla, nil
}

func (r *slaRepository) ListAll(ctx context.Context) ([]domain.SLA, error) {
	rows, err := querier(ctx, r.pool).Query(ctx,
		`SELECT id, severity, priority, time_limit_hr FROM slas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLA
	for rows.Next() {
		var sla domain.SLA
		if err := rows.Scan(&sla.ID, &sla.Severity, &sla.Priority, &sla.TimeLimitHr); err != nil {
			return nil, err
		}
		result = append(result, sla)
	}
	return result, rows.Err()
}
