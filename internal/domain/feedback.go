package domain

import "time"

// Feedback is the single post-resolution rating a customer may leave
// on their own ticket.
type Feedback struct {
	ID           int64
	TicketID     int64
	Rating       int
	Comment      string
	FeedbackTime time.Time
}
