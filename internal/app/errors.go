package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotConfigured  = errors.New("service dependency not configured")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBackpressure   = errors.New("poster queue is full")
	ErrRequestPending = errors.New("request with this idempotency key is still in progress")
	ErrStopped        = errors.New("service was stopped and cannot be restarted")
)
