package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/netdesk/internal/domain"
)

// AssignmentRepository is the append-only assignment ledger. Entries
// are only ever inserted and listed.
type AssignmentRepository interface {
	Append(ctx context.Context, assignment *domain.Assignment) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Assignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Append(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (ticket_id, assigned_to, assigned_by, assigned_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		assignment.TicketID,
		assignment.AssignedTo,
		assignment.AssignedBy,
		assignment.AssignedAt,
	).Scan(&assignment.ID)
}

func (r *assignmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Assignment, error) {
	rows, err := querier(ctx, r.pool).Query(ctx,
		`SELECT id, ticket_id, assigned_to, assigned_by, assigned_at
         FROM assignments WHERE ticket_id=$1 ORDER BY assigned_at`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var entry domain.Assignment
		if err := rows.Scan(&entry.ID, &entry.TicketID, &entry.AssignedTo, &entry.AssignedBy, &entry.AssignedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
