package domain

import "time"

// Team has the same ownership shape as Category for authorization purposes.
type Team struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
