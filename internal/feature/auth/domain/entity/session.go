// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Session represents one logged-in client. Login here is a bare login name:
// the venue has no credentials, users are created on first login. Keeping
// the session keyed by an opaque token lets concurrent requests from
// different users coexist.
type Session struct {
	ID        string    // Session token (64-character hex string)
	Login     string    // Login name of the session's user
	CreatedAt time.Time // Session creation time
	ExpiresAt time.Time // Session expiration time
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
