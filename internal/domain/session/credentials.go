package session

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials checks the admin username and password.
type Credentials struct {
	username string
	hash     []byte
}

// CredentialOption configures Credentials.
type CredentialOption func(*credentialConfig)

type credentialConfig struct {
	cost int
}

// WithCost sets the bcrypt cost used to hash the password.
func WithCost(cost int) CredentialOption {
	return func(c *credentialConfig) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			c.cost = cost
		}
	}
}

// NewCredentials hashes password for later verification.
func NewCredentials(username, password string, opts ...CredentialOption) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, errors.New("session: empty admin credentials")
	}
	cfg := credentialConfig{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&cfg)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Credentials{username: username, hash: hash}, nil
}

// Username returns the configured admin name.
func (c *Credentials) Username() string { return c.username }

// Verify returns ErrBadCredentials unless both values match.
func (c *Credentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrBadCredentials
	}
	return nil
}
