package domain

import "time"

// Assignment is an append-only ledger entry recording who handed a
// ticket to whom. Entries are never updated or deleted; the ticket's
// AssignedTo field reflects only the latest one.
type Assignment struct {
	ID         int64
	TicketID   int64
	AssignedTo int64
	AssignedBy int64
	AssignedAt time.Time
}
