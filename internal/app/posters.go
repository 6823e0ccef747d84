package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/mq/queue"
	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/poster"
	"github.com/okian/rendezvous/pkg/logger"
	"github.com/okian/rendezvous/pkg/metrics"
)

const posterContentType = "image/png"

// Poster is a rendered poster ready for download.
type Poster struct {
	Data     []byte
	Filename string
	Cached   bool
}

// PosterTemplates lists the available poster templates.
func (s *Service) PosterTemplates() []poster.Template {
	return poster.Templates()
}

// Poster returns the poster of a result, serving it from the posters bucket
// when it was rendered before and rendering and storing it otherwise.
func (s *Service) Poster(ctx context.Context, resultID, templateID string) (Poster, error) {
	if templateID == "" {
		templateID = poster.DefaultTemplate
	}
	r, err := s.store.GetResult(ctx, resultID)
	if err != nil {
		return Poster{}, err
	}
	data, cached, err := s.posterFor(ctx, r, templateID)
	if err != nil {
		return Poster{}, err
	}
	return Poster{Data: data, Filename: poster.Filename(r), Cached: cached}, nil
}

// EnsurePoster renders and stores the poster of a result unless it is
// already cached. Poster workers call it for every queued job.
func (s *Service) EnsurePoster(ctx context.Context, resultID, templateID string) (bool, error) {
	r, err := s.store.GetResult(ctx, resultID)
	if err != nil {
		return false, err
	}
	spec, err := poster.NewSpec(r, templateID)
	if err != nil {
		metrics.RecordPosterRenderError("spec")
		return false, err
	}
	key := poster.CacheKey(spec)
	ok, err := s.blobs.Has(ctx, blobstore.BucketPosters, key)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	_, err = s.renderAndStore(ctx, spec, key)
	return false, err
}

func (s *Service) posterFor(ctx context.Context, r model.Result, templateID string) ([]byte, bool, error) {
	spec, err := poster.NewSpec(r, templateID)
	if err != nil {
		metrics.RecordPosterRenderError("spec")
		return nil, false, err
	}
	key := poster.CacheKey(spec)

	obj, err := s.blobs.Get(ctx, blobstore.BucketPosters, key)
	switch {
	case err == nil:
		metrics.RecordPosterCacheHit()
		return obj.Data, true, nil
	case !errors.Is(err, blobstore.ErrNotFound):
		return nil, false, err
	}

	data, err := s.renderAndStore(ctx, spec, key)
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func (s *Service) renderAndStore(ctx context.Context, spec poster.Spec, key string) ([]byte, error) {
	start := time.Now()
	data, err := poster.RenderSpec(spec)
	if err != nil {
		metrics.RecordPosterRenderError("render")
		return nil, fmt.Errorf("render poster %s: %w", key, err)
	}
	metrics.RecordPosterRendered(spec.TemplateID, float64(time.Since(start).Microseconds())/1000)

	// A failed cache write still yields a usable poster.
	if err := s.blobs.Put(ctx, blobstore.BucketPosters, key, posterContentType, data); err != nil {
		s.logger.Warn(ctx, "storing rendered poster failed",
			logger.String("key", key), logger.Error(err))
	}
	return data, nil
}

// prunePosters drops the cached posters of rs in every template. Results
// with identical poster content share a cache entry, so a pruned entry may
// be rendered again for a sibling on its next request.
func (s *Service) prunePosters(ctx context.Context, rs ...model.Result) {
	for _, r := range rs {
		for _, tpl := range poster.Templates() {
			spec, err := poster.NewSpec(r, tpl.ID)
			if err != nil {
				continue
			}
			s.dropBlob(ctx, blobstore.BucketPosters, poster.CacheKey(spec))
		}
	}
}

// QueueEventPosters schedules a background render of every result of an
// event. It stops at the first rejected job and reports ErrBackpressure
// together with the number already accepted.
func (s *Service) QueueEventPosters(ctx context.Context, eventID, templateID string) (int, error) {
	if templateID == "" {
		templateID = poster.DefaultTemplate
	}
	tpl, err := poster.Lookup(templateID)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, templateID)
	}
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return 0, err
	}
	rs, err := s.store.ListResultsByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, r := range rs {
		if !s.queue.Enqueue(ctx, queue.Job{ResultID: r.ID, Template: tpl.ID}) {
			return enqueued, fmt.Errorf("%w: %d of %d posters queued", ErrBackpressure, enqueued, len(rs))
		}
		enqueued++
	}
	s.logger.Debug(ctx, "queued event posters",
		logger.String("event", eventID),
		logger.String("template", tpl.ID),
		logger.Int("count", enqueued),
	)
	return enqueued, nil
}
