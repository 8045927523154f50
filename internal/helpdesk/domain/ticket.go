package domain

import "time"

// Ticket is owned by a category; its company is indirect (ticket -> category
// -> company). There is deliberately no CompanyID field here, which is why
// tickets need a two-hop target resolution strategy.
type Ticket struct {
	ID          string
	CategoryID  string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
