package dto

import (
	"time"

	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/service"
)

// CreateTicketRequest is the customer ticket submission payload.
type CreateTicketRequest struct {
	IssueDescription string `json:"issue_description"`
	IssueCategoryID  int64  `json:"issue_category_id"`
	AddressID        int64  `json:"address_id"`
}

// ClassifyTicketRequest carries the SLA classification.
type ClassifyTicketRequest struct {
	Severity string `json:"severity"`
	Priority string `json:"priority"`
	SLAID    int64  `json:"sla_id"`
}

// AssignTicketRequest names the engineer receiving the ticket.
type AssignTicketRequest struct {
	EngineerID int64 `json:"engineer_id"`
}

// ChangeStatusRequest carries the requested lifecycle transition.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// SubmitFeedbackRequest carries a customer rating.
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// TicketResponse is the external ticket representation. SLAStatus is
// derived on every read.
type TicketResponse struct {
	ID               int64            `json:"ticket_id"`
	CreatedBy        int64            `json:"created_by"`
	IssueDescription string           `json:"issue_description"`
	IssueCategoryID  int64            `json:"issue_category_id"`
	AddressID        int64            `json:"address_id"`
	Status           string           `json:"status"`
	Severity         *domain.Severity `json:"severity,omitempty"`
	Priority         *domain.Priority `json:"priority,omitempty"`
	SLAID            *int64           `json:"sla_id,omitempty"`
	AssignedTo       *int64           `json:"assigned_to,omitempty"`
	DueDate          *time.Time       `json:"due_date,omitempty"`
	SLAStatus        string           `json:"sla_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket with its derived SLA band.
func NewTicketResponse(ticket *domain.Ticket, band service.SLABand) TicketResponse {
	return TicketResponse{
		ID:               ticket.ID,
		CreatedBy:        ticket.CreatedBy,
		IssueDescription: ticket.IssueDescription,
		IssueCategoryID:  ticket.IssueCategoryID,
		AddressID:        ticket.AddressID,
		Status:           string(ticket.Status),
		Severity:         ticket.Severity,
		Priority:         ticket.Priority,
		SLAID:            ticket.SLAID,
		AssignedTo:       ticket.AssignedTo,
		DueDate:          ticket.DueDate,
		SLAStatus:        string(band),
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

// AssignmentResponse is one ledger entry.
type AssignmentResponse struct {
	ID         int64     `json:"assignment_id"`
	TicketID   int64     `json:"ticket_id"`
	AssignedTo int64     `json:"assigned_to"`
	AssignedBy int64     `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

// NewAssignmentResponse maps a ledger entry.
func NewAssignmentResponse(entry domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         entry.ID,
		TicketID:   entry.TicketID,
		AssignedTo: entry.AssignedTo,
		AssignedBy: entry.AssignedBy,
		AssignedAt: entry.AssignedAt,
	}
}

// FeedbackResponse is the external feedback representation.
type FeedbackResponse struct {
	ID           int64     `json:"feedback_id"`
	TicketID     int64     `json:"ticket_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	FeedbackTime time.Time `json:"feedback_time"`
}

// NewFeedbackResponse maps domain feedback.
func NewFeedbackResponse(feedback *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:           feedback.ID,
		TicketID:     feedback.TicketID,
		Rating:       feedback.Rating,
		Comment:      feedback.Comment,
		FeedbackTime: feedback.FeedbackTime,
	}
}
