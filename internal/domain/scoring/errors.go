package scoring

import "errors"

// ErrInvalidPosition is returned for placements below 1.
var ErrInvalidPosition = errors.New("invalid position")
