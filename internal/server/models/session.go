package models

import "time"

// Session is a login session. The row is persisted; User and
// WebsitesOwnedByCurrentUser are filled per request and never stored.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time

	User                       *User
	WebsitesOwnedByCurrentUser []int64
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
