package service

import (
	"context"
	"strings"

	"github.com/okian/rendezvous/pkg/metrics"
)

// Idempotent runs create at most once per (scope, key) and returns the ID it
// produced. A repeated key returns the remembered ID with replayed set. A key
// whose first request has not finished yet yields ErrRequestPending. An
// empty key always runs create.
func (s *Service) Idempotent(ctx context.Context, scope, key string, create func() (string, error)) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		id, err := create()
		return id, false, err
	}

	full := scope + ":" + key
	id, seen := s.deduper.SeenAndRecord(ctx, full)
	if seen {
		if id == "" {
			return "", false, ErrRequestPending
		}
		metrics.RecordIdempotentReplay()
		return id, true, nil
	}

	id, err := create()
	if err != nil {
		s.deduper.Unrecord(ctx, full)
		return "", false, err
	}
	s.deduper.Complete(ctx, full, id)
	return id, false, nil
}
