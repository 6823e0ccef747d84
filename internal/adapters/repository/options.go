package repository

import "time"

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithClock overrides the time source used for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how new record IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *SQLStore) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithMaxOpenConns caps the connection pool. Ignored for SQLite, which
// always uses a single connection.
func WithMaxOpenConns(n int) Option {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}
