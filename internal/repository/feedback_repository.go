package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/netdesk/internal/domain"
)

// FeedbackRepository persists post-resolution customer feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByTicket(ctx context.Context, ticketID int64) (*domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (ticket_id, rating, comment, feedback_time)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		feedback.TicketID,
		feedback.Rating,
		feedback.Comment,
		feedback.FeedbackTime,
	).Scan(&feedback.ID)
}

func (r *feedbackRepository) GetByTicket(ctx context.Context, ticketID int64) (*domain.Feedback, error) {
	var feedback domain.Feedback
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, ticket_id, rating, comment, feedback_time FROM feedback WHERE ticket_id=$1`,
		ticketID,
	).Scan(&feedback.ID, &feedback.TicketID, &feedback.Rating, &feedback.Comment, &feedback.FeedbackTime); err != nil {
		return nil, err
	}
	return &feedback, nil
}
