package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/events"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// FeedbackService records the single post-resolution rating a
// customer may leave on their own ticket.
type FeedbackService struct {
	feedback   repository.FeedbackRepository
	tickets    repository.TicketRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
	clock      Clock
}

// FeedbackDependencies bundles collaborators for the feedback service.
type FeedbackDependencies struct {
	FeedbackRepo repository.FeedbackRepository
	TicketRepo   repository.TicketRepository
	TxManager    repository.TxManager
	Dispatcher   events.Dispatcher
	Clock        Clock
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &FeedbackService{
		feedback:   deps.FeedbackRepo,
		tickets:    deps.TicketRepo,
		tx:         deps.TxManager,
		dispatcher: deps.Dispatcher,
		clock:      clock,
	}
}

// Submit stores feedback for a resolved or closed ticket. The
// duplicate check runs inside the same transaction as the insert, so
// a second submission always fails regardless of payload.
func (s *FeedbackService) Submit(ctx context.Context, caller *domain.User, ticketID int64, rating int, comment string) (*domain.Feedback, error) {
	if !auth.Allowed(auth.OpFeedbackSubmit, caller.Role) {
		return nil, apperrors.NewForbidden("only customers can submit feedback")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	var feedback *domain.Feedback
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if ticket.CreatedBy != caller.ID {
			return apperrors.NewForbidden("feedback is limited to the ticket creator")
		}
		if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusClosed {
			return apperrors.NewInvalidState("feedback requires a resolved or closed ticket", nil)
		}
		if _, err := s.feedback.GetByTicket(ctx, ticketID); err == nil {
			return apperrors.NewConflict("feedback already submitted for this ticket", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.MapError(err)
		}

		feedback = &domain.Feedback{
			TicketID:     ticketID,
			Rating:       rating,
			Comment:      comment,
			FeedbackTime: s.clock.Now(),
		}
		return apperrors.MapError(s.feedback.Create(ctx, feedback))
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventFeedbackSubmitted,
			TicketID:  ticketID,
			Actor:     events.Actor{UserID: caller.ID, Role: caller.Role},
			Timestamp: s.clock.Now(),
			Payload:   events.FeedbackSubmittedPayload{Rating: rating},
		})
	}
	return feedback, nil
}

// Get returns the feedback of a ticket. Customers may only read
// feedback on their own tickets; staff may read any.
func (s *FeedbackService) Get(ctx context.Context, caller *domain.User, ticketID int64) (*domain.Feedback, error) {
	feedback, err := s.feedback.GetByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("feedback", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role == domain.RoleCustomer {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if ticket.CreatedBy != caller.ID {
			return nil, apperrors.NewForbidden("access denied")
		}
	}
	return feedback, nil
}
