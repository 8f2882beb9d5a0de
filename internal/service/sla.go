package service

import (
	"time"

	"github.com/spec-kit/netdesk/internal/domain"
)

// SLABand is the dashboard color derived from remaining SLA budget.
type SLABand string

const (
	SLABandGreen  SLABand = "green"
	SLABandYellow SLABand = "yellow"
	SLABandRed    SLABand = "red"
	// SLABandNone applies to unclassified tickets with no due date.
	SLABandNone SLABand = "none"
)

// DueDate computes the resolution deadline from classification time
// and the SLA window.
func DueDate(classifiedAt time.Time, sla *domain.SLA) time.Time {
	return classifiedAt.Add(time.Duration(sla.TimeLimitHr) * time.Hour)
}

// BandFor derives the SLA color for a ticket at the given instant.
// remaining < 0 is red; otherwise the remaining fraction of the full
// created-to-due window decides: > 0.4 green, (0.1, 0.4] yellow,
// anything else red. Pure function, recomputed on every read.
func BandFor(createdAt, dueDate, now time.Time) SLABand {
	remaining := dueDate.Sub(now)
	if remaining < 0 {
		return SLABandRed
	}
	total := dueDate.Sub(createdAt)
	if total <= 0 {
		return SLABandRed
	}
	fraction := float64(remaining) / float64(total)
	switch {
	case fraction > 0.4:
		return SLABandGreen
	case fraction > 0.1:
		return SLABandYellow
	default:
		return SLABandRed
	}
}

// TicketBand resolves the band for a ticket, tolerating unclassified
// tickets.
func TicketBand(ticket *domain.Ticket, now time.Time) SLABand {
	if ticket.DueDate == nil {
		return SLABandNone
	}
	return BandFor(ticket.CreatedAt, *ticket.DueDate, now)
}
