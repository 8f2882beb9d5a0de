package domain

import "time"

// Address is a customer-owned service location referenced by tickets.
type Address struct {
	ID         int64
	UserID     int64
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	CreatedAt  time.Time
}
