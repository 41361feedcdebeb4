package apitoken

import "time"

// Token is a bearer credential scoped to one user, used by mobile and
// Shortcuts clients for the entry-logging endpoints.
type Token struct {
	ID         string
	UserID     string
	SecretHash string
	Label      string
	IsActive   bool
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token carries an expiry in the past.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}
