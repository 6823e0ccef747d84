// Package seed loads the festival sample records into a fresh deployment.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/domain/leaderboard"
	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/poster"
	"github.com/okian/rendezvous/pkg/logger"
)

// galleryTemplate styles the placeholder image stored for sample gallery items.
const galleryTemplate = "festival"

// Run writes the sample records through store, storing gallery images in blobs.
func Run(ctx context.Context, store repository.Store, blobs blobstore.Store, cfg *Config) (*Stats, error) {
	if store == nil || blobs == nil {
		return nil, ErrNoStore
	}
	if cfg == nil {
		cfg = &Config{}
	}
	log := logger.Named("seed")
	stats := &Stats{StartTime: time.Now()}

	if cfg.Reset {
		removed, err := reset(ctx, store, blobs)
		if err != nil {
			return nil, fmt.Errorf("reset: %w", err)
		}
		stats.Removed = removed
		log.Info(ctx, "store reset", logger.Int("blobs_removed", removed))
	}

	eventIDs := make(map[string]string)
	for _, e := range sampleEvents() {
		created, err := store.CreateEvent(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("create event %q: %w", e.Name, err)
		}
		eventIDs[created.Name] = created.ID
		stats.Events++
		if cfg.Verbose {
			log.Debug(ctx, "event created", logger.String("id", created.ID), logger.String("name", created.Name))
		}
	}

	for _, sr := range sampleResults() {
		created, err := store.CreateResult(ctx, model.Result{
			EventID:     eventIDs[sr.EventName],
			Participant: sr.Participant,
			Position:    sr.Position,
		})
		if err != nil {
			return nil, fmt.Errorf("create result for %q: %w", sr.Participant, err)
		}
		stats.Results++
		if cfg.Verbose {
			log.Debug(ctx, "result created",
				logger.String("participant", created.Participant),
				logger.Int("position", created.Position),
				logger.Int("points", created.Points))
		}
	}

	for _, g := range sampleGallery() {
		created, err := createGalleryItem(ctx, store, blobs, g)
		if err != nil {
			return nil, err
		}
		stats.Gallery++
		if cfg.Verbose {
			log.Debug(ctx, "gallery item created", logger.String("id", created.ID), logger.String("title", created.Title))
		}
	}

	for _, a := range sampleAnnouncements() {
		created, err := store.CreateAnnouncement(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("create announcement %q: %w", a.Title, err)
		}
		stats.Announcements++
		if cfg.Verbose {
			log.Debug(ctx, "announcement created", logger.String("id", created.ID), logger.String("title", created.Title))
		}
	}

	if err := verify(ctx, store, stats); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "sample data loaded",
		logger.Int("events", stats.Events),
		logger.Int("results", stats.Results),
		logger.Int("gallery", stats.Gallery),
		logger.Int("announcements", stats.Announcements),
		logger.Duration("took", stats.Duration))
	return stats, nil
}

// createGalleryItem stores a rendered placeholder image and the record
// pointing at it, dropping the image when the record is rejected.
func createGalleryItem(ctx context.Context, store repository.Store, blobs blobstore.Store, g model.GalleryItem) (model.GalleryItem, error) {
	img, err := poster.Render(model.Result{
		EventName:   g.EventName,
		Participant: g.Title,
		Position:    1,
	}, galleryTemplate)
	if err != nil {
		return model.GalleryItem{}, fmt.Errorf("render image for %q: %w", g.Title, err)
	}
	g.ImageKey = uuid.NewString()
	g.ContentType = "image/png"
	if err := blobs.Put(ctx, blobstore.BucketGallery, g.ImageKey, g.ContentType, img); err != nil {
		return model.GalleryItem{}, fmt.Errorf("store image for %q: %w", g.Title, err)
	}
	created, err := store.CreateGalleryItem(ctx, g)
	if err != nil {
		_ = blobs.Delete(ctx, blobstore.BucketGallery, g.ImageKey)
		return model.GalleryItem{}, fmt.Errorf("create gallery item %q: %w", g.Title, err)
	}
	return created, nil
}

// reset drops the blobs referenced by existing records, then every row.
func reset(ctx context.Context, store repository.Store, blobs blobstore.Store) (int, error) {
	var refs []struct{ bucket, key string }

	items, err := store.ListGallery(ctx, repository.GalleryFilter{})
	if err != nil {
		return 0, err
	}
	for _, g := range items {
		refs = append(refs, struct{ bucket, key string }{blobstore.BucketGallery, g.ImageKey})
	}
	results, err := store.ListResults(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range results {
		for _, key := range r.Photos {
			refs = append(refs, struct{ bucket, key string }{blobstore.BucketResultPhotos, key})
		}
	}
	notices, err := store.ListAnnouncements(ctx, repository.AnnouncementFilter{})
	if err != nil {
		return 0, err
	}
	for _, a := range notices {
		if a.AudioKey != "" {
			refs = append(refs, struct{ bucket, key string }{blobstore.BucketAudio, a.AudioKey})
		}
	}

	removed := 0
	for _, ref := range refs {
		if err := blobs.Delete(ctx, ref.bucket, ref.key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, store.Reset(ctx)
}

// verify checks that the stored rows and the derived leaderboard match what
// was written.
func verify(ctx context.Context, store repository.Store, stats *Stats) error {
	counts, err := store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if counts.Events < stats.Events || counts.Results < stats.Results ||
		counts.Gallery < stats.Gallery || counts.Announcements < stats.Announcements {
		return fmt.Errorf("%w: stored %+v", ErrVerification, counts)
	}

	results, err := store.ListResults(ctx)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}
	board, err := leaderboard.Compute(results)
	if err != nil {
		return fmt.Errorf("compute leaderboard: %w", err)
	}
	for i := 1; i < len(board); i++ {
		if board[i].TotalPoints > board[i-1].TotalPoints {
			return fmt.Errorf("%w: leaderboard out of order at rank %d", ErrVerification, board[i].Rank)
		}
	}
	return nil
}
