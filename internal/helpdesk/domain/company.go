package domain

import "time"

// Role names a company membership set. A user may sit in several sets of the
// same company; roles are per-company, never global.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeam     Role = "team"
	RolePurchase Role = "purchase"
)

type Company struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
