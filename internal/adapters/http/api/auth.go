package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/rendezvous/internal/domain/session"
	"github.com/okian/rendezvous/pkg/metrics"
)

// AuthDependencies defines the admin session operations.
type AuthDependencies interface {
	Login(ctx context.Context, username, password string) (string, session.Session, error)
	Authenticate(token string) (session.Session, error)
}

// AuthHandler handles admin login.
type AuthHandler struct {
	deps    AuthDependencies
	limiter *loginLimiter
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies, limiter *loginLimiter) *AuthHandler {
	return &AuthHandler{deps: deps, limiter: limiter}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleLogin handles POST /api/v1/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		metrics.RecordLoginAttempt("throttled")
		w.Header().Set("Retry-After", "1")
		writeServiceError(w, ErrRateLimited)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeServiceError(w, fmt.Errorf("%w: username and password are required", ErrBadRequest))
		return
	}
	token, sess, err := h.deps.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: sess.ExpiresAt})
}
