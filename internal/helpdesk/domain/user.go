package domain

import "time"

// User does not carry its own role list; membership is always evaluated by
// asking whether the user sits in a given company's membership set.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
