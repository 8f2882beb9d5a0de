package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusReopened   TicketStatus = "reopened"
)

// ParseTicketStatus normalizes external input into a TicketStatus.
// Legacy display casing ("In Progress", "On Hold") is accepted at the
// boundary and folded into the canonical snake_case form.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	status := TicketStatus(normalized)
	switch status {
	case TicketStatusNew, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusOnHold, TicketStatusResolved, TicketStatusClosed,
		TicketStatusReopened:
		return status, nil
	}
	return "", fmt.Errorf("unknown ticket status %q", raw)
}

// Severity enumerates SLA severity levels.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Priority enumerates SLA priority levels.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParseSeverity normalizes external input into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	severity := Severity(strings.ToLower(strings.TrimSpace(raw)))
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return severity, nil
	}
	return "", fmt.Errorf("unknown severity %q", raw)
}

// ParsePriority normalizes external input into a Priority.
func ParsePriority(raw string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(raw)))
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return priority, nil
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}

// Ticket is the central aggregate. Severity, Priority, SLAID and
// DueDate are nil until classification, which sets all of them in one
// write. AssignedTo is nil until assignment.
type Ticket struct {
	ID               int64
	CreatedBy        int64
	IssueDescription string
	IssueCategoryID  int64
	AddressID        int64
	Status           TicketStatus
	Severity         *Severity
	Priority         *Priority
	SLAID            *int64
	AssignedTo       *int64
	DueDate          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Classified reports whether the ticket carries a complete SLA
// classification.
func (t *Ticket) Classified() bool {
	return t.Severity != nil && t.Priority != nil && t.SLAID != nil
}
