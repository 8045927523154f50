package domain

import "time"

// TokenTypeLostPassword tags tokens issued for the password-reset flow.
const TokenTypeLostPassword = "lostPassword"

// Token is a one-time bearer credential for an out-of-band action. It is
// valid until first use or expiration, whichever comes first.
type Token struct {
	ID        string
	Value     string // opaque random string, fixed length
	UserID    string
	Type      string
	Fired     bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsValid reports whether the token can still be redeemed.
func (t Token) IsValid() bool {
	return t.IsValidAt(time.Now().UTC())
}

// IsValidAt is IsValid against an explicit clock, for tests.
func (t Token) IsValidAt(now time.Time) bool {
	return !t.Fired && now.Before(t.ExpiresAt)
}
