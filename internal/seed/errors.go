package seed

import "errors"

var (
	// ErrNoStore is returned when Run is called without a store.
	ErrNoStore = errors.New("seed: store and blob store are required")
	// ErrVerification is returned when the stored data does not match the run.
	ErrVerification = errors.New("seed: verification failed")
)
