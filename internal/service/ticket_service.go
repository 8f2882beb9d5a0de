package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/events"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// reopenWindow is how long after the last update a customer may still
// reopen a resolved or closed ticket. The boundary is inclusive: a
// reopen at exactly 48h succeeds.
const reopenWindow = 48 * time.Hour

// TicketService is the ticket lifecycle engine. Every mutation is
// role-gated through the authorization policy, re-verifies its state
// precondition inside the transaction that performs the write, and
// leaves no partial state behind on failure.
type TicketService struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	slas        repository.SLARepository
	assignments repository.AssignmentRepository
	categories  repository.IssueCategoryRepository
	addresses   repository.AddressRepository
	tx          repository.TxManager
	dispatcher  events.Dispatcher
	clock       Clock
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	UserRepo       repository.UserRepository
	SLARepo        repository.SLARepository
	AssignmentRepo repository.AssignmentRepository
	CategoryRepo   repository.IssueCategoryRepository
	AddressRepo    repository.AddressRepository
	TxManager      repository.TxManager
	Dispatcher     events.Dispatcher
	Clock          Clock
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		users:       deps.UserRepo,
		slas:        deps.SLARepo,
		assignments: deps.AssignmentRepo,
		categories:  deps.CategoryRepo,
		addresses:   deps.AddressRepo,
		tx:          deps.TxManager,
		dispatcher:  deps.Dispatcher,
		clock:       clock,
	}
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	IssueDescription string
	IssueCategoryID  int64
	AddressID        int64
}

// Create files a new ticket for a customer. The ticket starts in
// status new with no classification.
func (s *TicketService) Create(ctx context.Context, caller *domain.User, input CreateTicketInput) (*domain.Ticket, error) {
	if !auth.Allowed(auth.OpTicketCreate, caller.Role) {
		return nil, apperrors.NewForbidden("only customers can create tickets")
	}
	if strings.TrimSpace(input.IssueDescription) == "" {
		return nil, apperrors.NewValidationError("issue description required", nil)
	}

	if _, err := s.categories.GetByID(ctx, input.IssueCategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("issue category does not exist", map[string]any{"category_id": input.IssueCategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	address, err := s.addresses.GetByID(ctx, input.AddressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("address does not exist", map[string]any{"address_id": input.AddressID})
		}
		return nil, apperrors.MapError(err)
	}
	if address.UserID != caller.ID {
		return nil, apperrors.NewValidationError("address does not belong to caller", map[string]any{"address_id": input.AddressID})
	}

	ticket := &domain.Ticket{
		CreatedBy:        caller.ID,
		IssueDescription: strings.TrimSpace(input.IssueDescription),
		IssueCategoryID:  input.IssueCategoryID,
		AddressID:        input.AddressID,
		Status:           domain.TicketStatusNew,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, caller, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		IssueCategoryID: ticket.IssueCategoryID,
		AddressID:       ticket.AddressID,
		Description:     ticket.IssueDescription,
	})
	return ticket, nil
}

// Classify assigns severity, priority and an SLA to a ticket and
// derives the due date. All four fields are written together; a
// failed SLA lookup leaves the ticket untouched.
func (s *TicketService) Classify(ctx context.Context, caller *domain.User, ticketID int64, severity domain.Severity, priority domain.Priority, slaID int64) (*domain.Ticket, error) {
	if !auth.Allowed(auth.OpTicketClassify, caller.Role) {
		return nil, apperrors.NewForbidden("role not permitted to classify tickets")
	}

	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		sla, err := s.slas.GetByID(ctx, slaID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("sla", map[string]any{"sla_id": slaID})
			}
			return apperrors.MapError(err)
		}

		now := s.clock.Now()
		due := DueDate(now, sla)
		ticket.Severity = &severity
		ticket.Priority = &priority
		ticket.SLAID = &sla.ID
		ticket.DueDate = &due
		ticket.UpdatedAt = now
		return apperrors.MapError(s.tickets.Update(ctx, ticket))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, caller, events.EventTicketClassified, ticket.ID, events.TicketClassifiedPayload{
		Severity: severity,
		Priority: priority,
		SLAID:    slaID,
		DueDate:  *ticket.DueDate,
	})
	return ticket, nil
}

// Assign hands a classified ticket to an engineer and appends an
// assignment ledger entry. The ticket update and the ledger append
// commit together or not at all; the status precondition is checked
// against the locked row.
func (s *TicketService) Assign(ctx context.Context, caller *domain.User, ticketID, engineerID int64) (*domain.Ticket, error) {
	if !auth.Allowed(auth.OpTicketAssign, caller.Role) {
		return nil, apperrors.NewForbidden("customers cannot assign tickets")
	}

	engineer, err := s.users.GetByID(ctx, engineerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": engineerID})
		}
		return nil, apperrors.MapError(err)
	}
	if engineer.Role != domain.RoleEngineer {
		return nil, apperrors.NewValidationError("assignee must be an engineer", map[string]any{"user_id": engineerID})
	}

	var ticket *domain.Ticket
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if !ticket.Classified() {
			return apperrors.NewPreconditionFailed("Ticket must be classified before assignment", nil)
		}
		if ticket.Status != domain.TicketStatusNew && ticket.Status != domain.TicketStatusReopened {
			return apperrors.NewInvalidState(
				fmt.Sprintf("ticket with status %s cannot be assigned", ticket.Status), nil)
		}

		now := s.clock.Now()
		ticket.AssignedTo = &engineer.ID
		ticket.Status = domain.TicketStatusAssigned
		ticket.UpdatedAt = now
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		return apperrors.MapError(s.assignments.Append(ctx, &domain.Assignment{
			TicketID:   ticket.ID,
			AssignedTo: engineer.ID,
			AssignedBy: caller.ID,
			AssignedAt: now,
		}))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, caller, events.EventTicketAssigned, ticket.ID, events.TicketAssignedPayload{
		AssignedTo: engineerID,
		AssignedBy: caller.ID,
	})
	return ticket, nil
}

// transitionRule describes which transitions a role may perform.
type transitionRule struct {
	assigneeOnly bool
	from         map[domain.TicketStatus]bool
	to           map[domain.TicketStatus]bool
}

// statusRules is the consolidated transition table. Engineers move
// their own tickets between working states; admins and agents close
// resolved tickets and reopen closed ones.
var statusRules = map[domain.Role]transitionRule{
	domain.RoleEngineer: {
		assigneeOnly: true,
		from: map[domain.TicketStatus]bool{
			domain.TicketStatusAssigned:   true,
			domain.TicketStatusInProgress: true,
			domain.TicketStatusOnHold:     true,
		},
		to: map[domain.TicketStatus]bool{
			domain.TicketStatusInProgress: true,
			domain.TicketStatusOnHold:     true,
			domain.TicketStatusResolved:   true,
		},
	},
	domain.RoleAdmin: {
		from: map[domain.TicketStatus]bool{
			domain.TicketStatusResolved: true,
			domain.TicketStatusClosed:   true,
		},
		to: map[domain.TicketStatus]bool{
			domain.TicketStatusClosed:   true,
			domain.TicketStatusReopened: true,
		},
	},
	domain.RoleAgent: {
		from: map[domain.TicketStatus]bool{
			domain.TicketStatusResolved: true,
			domain.TicketStatusClosed:   true,
		},
		to: map[domain.TicketStatus]bool{
			domain.TicketStatusClosed:   true,
			domain.TicketStatusReopened: true,
		},
	},
}

// allows checks both ends of a transition plus the pairing rules that
// keep closed-only-from-resolved and reopened-only-from-closed.
func (r transitionRule) allows(from, to domain.TicketStatus) bool {
	if !r.from[from] || !r.to[to] {
		return false
	}
	if to == domain.TicketStatusClosed && from != domain.TicketStatusResolved {
		return false
	}
	if to == domain.TicketStatusReopened && from != domain.TicketStatusClosed {
		return false
	}
	return from != to
}

// ChangeStatus moves a ticket through the lifecycle according to the
// role- and state-gated transition table.
func (s *TicketService) ChangeStatus(ctx context.Context, caller *domain.User, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	rule, ok := statusRules[caller.Role]
	if !ok {
		return nil, apperrors.NewForbidden("role not permitted to change ticket status")
	}

	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if rule.assigneeOnly && (ticket.AssignedTo == nil || *ticket.AssignedTo != caller.ID) {
			return apperrors.NewForbidden("only the assigned engineer can update this ticket")
		}
		if !rule.allows(ticket.Status, newStatus) {
			return apperrors.NewInvalidState(
				fmt.Sprintf("transition %s -> %s not allowed", ticket.Status, newStatus), nil)
		}

		oldStatus = ticket.Status
		ticket.Status = newStatus
		ticket.UpdatedAt = s.clock.Now()
		return apperrors.MapError(s.tickets.Update(ctx, ticket))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, caller, events.EventTicketStatusChanged, ticket.ID, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	return ticket, nil
}

// StartWork moves a ticket the caller is assigned to into progress.
func (s *TicketService) StartWork(ctx context.Context, caller *domain.User, ticketID int64) (*domain.Ticket, error) {
	if caller.Role != domain.RoleEngineer {
		return nil, apperrors.NewForbidden("only engineers can start work on a ticket")
	}

	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if ticket.AssignedTo == nil || *ticket.AssignedTo != caller.ID {
			return apperrors.NewForbidden("ticket is not assigned to caller")
		}
		if ticket.Status == domain.TicketStatusResolved {
			return apperrors.NewInvalidState("ticket already resolved", nil)
		}
		if ticket.Status != domain.TicketStatusNew && ticket.Status != domain.TicketStatusAssigned {
			return apperrors.NewInvalidState(
				fmt.Sprintf("cannot start work on ticket with status %s", ticket.Status), nil)
		}

		oldStatus = ticket.Status
		ticket.Status = domain.TicketStatusInProgress
		ticket.UpdatedAt = s.clock.Now()
		return apperrors.MapError(s.tickets.Update(ctx, ticket))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, caller, events.EventTicketStatusChanged, ticket.ID, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: domain.TicketStatusInProgress,
	})
	return ticket, nil
}

// Reopen lets the ticket creator pull a resolved or closed ticket back
// into the assignable pool within the reopen window.
func (s *TicketService) Reopen(ctx context.Context, caller *domain.User, ticketID int64) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if ticket.CreatedBy != caller.ID {
			return apperrors.NewForbidden("only the ticket creator can reopen it")
		}
		if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusClosed {
			return apperrors.NewInvalidState(
				fmt.Sprintf("ticket with status %s cannot be reopened", ticket.Status), nil)
		}
		now := s.clock.Now()
		if now.Sub(ticket.UpdatedAt) > reopenWindow {
			return apperrors.NewWindowExpired("reopen window of 48 hours has passed", nil)
		}

		oldStatus = ticket.Status
		ticket.Status = domain.TicketStatusReopened
		ticket.UpdatedAt = now
		return apperrors.MapError(s.tickets.Update(ctx, ticket))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, caller, events.EventTicketReopened, ticket.ID, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: domain.TicketStatusReopened,
	})
	return ticket, nil
}

// Delete removes a ticket. Only the creator may delete, and only
// while the ticket is still new and unassigned.
func (s *TicketService) Delete(ctx context.Context, caller *domain.User, ticketID int64) error {
	if !auth.Allowed(auth.OpTicketDelete, caller.Role) {
		return apperrors.NewForbidden("only customers can delete their tickets")
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.tickets.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if ticket.CreatedBy != caller.ID {
			return apperrors.NewForbidden("only the ticket creator can delete it")
		}
		if ticket.Status != domain.TicketStatusNew || ticket.AssignedTo != nil {
			return apperrors.NewInvalidState("only unassigned tickets in status new can be deleted", nil)
		}
		return apperrors.MapError(s.tickets.Delete(ctx, ticket.ID))
	})
}

// Get fetches a single ticket; customers only see their own.
func (s *TicketService) Get(ctx context.Context, caller *domain.User, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role == domain.RoleCustomer && ticket.CreatedBy != caller.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListInput carries ticket listing filters.
type ListInput struct {
	Statuses     []domain.TicketStatus
	CategoryID   *int64
	AssignedToMe bool
	Limit        int
	Offset       int
}

// List returns tickets visible to the caller. Customers are scoped to
// their own tickets; engineers may narrow to their queue.
func (s *TicketService) List(ctx context.Context, caller *domain.User, input ListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses:   input.Statuses,
		CategoryID: input.CategoryID,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if caller.Role == domain.RoleCustomer {
		filter.CreatedBy = &caller.ID
	} else if !auth.Allowed(auth.OpTicketListAll, caller.Role) {
		return nil, apperrors.NewForbidden("role not permitted to list tickets")
	}
	if input.AssignedToMe {
		filter.AssignedTo = &caller.ID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAssignments returns the append-only assignment history of a
// ticket, visible to staff and to the ticket's creator.
func (s *TicketService) ListAssignments(ctx context.Context, caller *domain.User, ticketID int64) ([]domain.Assignment, error) {
	ticket, err := s.Get(ctx, caller, ticketID)
	if err != nil {
		return nil, err
	}
	entries, err := s.assignments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Band reports the current SLA color of a ticket.
func (s *TicketService) Band(ticket *domain.Ticket) SLABand {
	return TicketBand(ticket, s.clock.Now())
}

func (s *TicketService) publish(ctx context.Context, actor *domain.User, eventType events.EventType, ticketID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
}
