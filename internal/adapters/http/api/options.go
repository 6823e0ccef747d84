package api

import (
	"github.com/okian/rendezvous/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxLeaderboardLimit caps the limit query parameter of the leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLoginRate sets the per-client login rate (attempts per second) and
// burst.
func WithLoginRate(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond > 0 {
			s.loginRate = perSecond
		}
		if burst > 0 {
			s.loginBurst = burst
		}
	}
}

// WithMaxUploadBytes caps the size of multipart uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithCORSOrigins sets the origins allowed by CORS. Empty allows any.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}
