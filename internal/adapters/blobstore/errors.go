package blobstore

import "errors"

var (
	ErrNotFound      = errors.New("blob not found")
	ErrUnknownBucket = errors.New("unknown blob bucket")
	ErrCorrupt       = errors.New("corrupt blob record")
)
