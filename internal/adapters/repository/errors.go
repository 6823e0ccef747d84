package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidRecord  = errors.New("invalid record")
	ErrUnknownDriver  = errors.New("unknown database driver")
	ErrStoreNotOpened = errors.New("store is not open")
)
