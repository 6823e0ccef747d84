// Package session models admin sessions and their authorization check.
package session

import (
	"fmt"
	"time"
)

// DefaultTTL is how long a freshly issued admin session stays valid.
const DefaultTTL = 24 * time.Hour

// Session is an admin login with a validity window.
type Session struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New returns a session for subject valid for ttl from now.
func New(subject string, now time.Time, ttl time.Duration) Session {
	return Session{Subject: subject, IssuedAt: now, ExpiresAt: now.Add(ttl)}
}

// Authorize reports whether s grants access at now. It depends only on its
// arguments; callers supply the clock.
func Authorize(s Session, now time.Time) error {
	switch {
	case s.Subject == "" || s.IssuedAt.IsZero() || s.ExpiresAt.IsZero():
		return ErrInvalidSession
	case !s.ExpiresAt.After(s.IssuedAt):
		return fmt.Errorf("%w: expires before it is issued", ErrInvalidSession)
	case now.Before(s.IssuedAt):
		return ErrNotYetValid
	case !now.Before(s.ExpiresAt):
		return ErrExpired
	}
	return nil
}
