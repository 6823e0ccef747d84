package session

import "errors"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpired        = errors.New("session expired")
	ErrNotYetValid    = errors.New("session not yet valid")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrBadCredentials = errors.New("bad credentials")
)
