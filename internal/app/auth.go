package service

import (
	"context"
	"fmt"

	"github.com/okian/rendezvous/internal/domain/session"
	"github.com/okian/rendezvous/pkg/logger"
	"github.com/okian/rendezvous/pkg/metrics"
)

// Login checks the admin credentials and issues a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, session.Session, error) {
	if s.issuer == nil || s.creds == nil {
		return "", session.Session{}, fmt.Errorf("%w: admin login is not configured", ErrNotConfigured)
	}
	if err := s.creds.Verify(username, password); err != nil {
		metrics.RecordLoginAttempt("rejected")
		s.logger.Warn(ctx, "admin login rejected", logger.String("username", username))
		return "", session.Session{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	token, sess, err := s.issuer.Issue(s.creds.Username(), s.now())
	if err != nil {
		return "", session.Session{}, err
	}
	metrics.RecordLoginAttempt("success")
	s.logger.Info(ctx, "admin logged in",
		logger.String("username", sess.Subject),
		logger.Duration("ttl", s.issuer.TTL()),
	)
	return token, sess, nil
}

// Authenticate verifies a session token and checks it against the clock.
func (s *Service) Authenticate(token string) (session.Session, error) {
	if s.issuer == nil {
		return session.Session{}, fmt.Errorf("%w: admin login is not configured", ErrNotConfigured)
	}
	if token == "" {
		return session.Session{}, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}
	sess, err := s.issuer.Parse(token)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if err := session.Authorize(sess, s.now()); err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if s.creds != nil && sess.Subject != s.creds.Username() {
		return session.Session{}, fmt.Errorf("%w: %w", ErrUnauthorized, session.ErrInvalidSession)
	}
	return sess, nil
}
