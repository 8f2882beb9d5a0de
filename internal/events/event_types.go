package events

import (
	"time"

	"github.com/spec-kit/netdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketClassified    EventType = "ticket_classified"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReopened      EventType = "ticket_reopened"
	EventFeedbackSubmitted   EventType = "feedback_submitted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	IssueCategoryID int64  `json:"issue_category_id"`
	AddressID       int64  `json:"address_id"`
	Description     string `json:"description"`
}

// TicketClassifiedPayload payload.
type TicketClassifiedPayload struct {
	Severity domain.Severity `json:"severity"`
	Priority domain.Priority `json:"priority"`
	SLAID    int64           `json:"sla_id"`
	DueDate  time.Time       `json:"due_date"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo int64 `json:"assigned_to"`
	AssignedBy int64 `json:"assigned_by"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	Rating int `json:"rating"`
}
