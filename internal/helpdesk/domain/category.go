package domain

import "time"

// Category is directly owned by a company.
type Category struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
