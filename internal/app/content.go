package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/domain/leaderboard"
	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/results"
)

// Schedule lists events ordered by date and time, optionally narrowed to a
// category.
func (s *Service) Schedule(ctx context.Context, category string) ([]model.Event, error) {
	return s.store.ListEvents(ctx, repository.EventFilter{Category: strings.TrimSpace(category)})
}

// GroupedResults returns every result grouped by event name. Results
// without an event fall into the unknown-event group, which sorts last.
func (s *Service) GroupedResults(ctx context.Context) ([]results.EventGroup, error) {
	all, err := s.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	return results.Groups(all), nil
}

// Leaderboard computes the standings from every stored result. limit <= 0
// returns every participant.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	all, err := s.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := leaderboard.Compute(all)
	if err != nil {
		return nil, err
	}
	return leaderboard.Top(entries, limit), nil
}

// ParticipantStanding returns one participant's leaderboard entry.
func (s *Service) ParticipantStanding(ctx context.Context, participant string) (model.LeaderboardEntry, error) {
	entries, err := s.Leaderboard(ctx, 0)
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	e, ok := leaderboard.Lookup(entries, participant)
	if !ok {
		return model.LeaderboardEntry{}, fmt.Errorf("participant %q: %w", participant, repository.ErrNotFound)
	}
	return e, nil
}

// Gallery lists gallery items matching the filter.
func (s *Service) Gallery(ctx context.Context, f repository.GalleryFilter) ([]model.GalleryItem, error) {
	return s.store.ListGallery(ctx, f)
}

// GalleryImage loads the uploaded image of a gallery item.
func (s *Service) GalleryImage(ctx context.Context, id string) (blobstore.Object, error) {
	item, err := s.store.GetGalleryItem(ctx, id)
	if err != nil {
		return blobstore.Object{}, err
	}
	return s.blobs.Get(ctx, blobstore.BucketGallery, item.ImageKey)
}

// LikeGalleryItem increments the like counter of a gallery item.
func (s *Service) LikeGalleryItem(ctx context.Context, id string) (model.GalleryItem, error) {
	return s.store.LikeGalleryItem(ctx, id)
}

// Announcements lists announcements matching the filter.
func (s *Service) Announcements(ctx context.Context, f repository.AnnouncementFilter) ([]model.Announcement, error) {
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, f.Priority)
	}
	return s.store.ListAnnouncements(ctx, f)
}

// AnnouncementAudio loads the synthesised audio of an announcement.
func (s *Service) AnnouncementAudio(ctx context.Context, id string) (blobstore.Object, error) {
	a, err := s.store.GetAnnouncement(ctx, id)
	if err != nil {
		return blobstore.Object{}, err
	}
	if a.AudioKey == "" {
		return blobstore.Object{}, fmt.Errorf("announcement %s has no audio: %w", id, blobstore.ErrNotFound)
	}
	return s.blobs.Get(ctx, blobstore.BucketAudio, a.AudioKey)
}

// ResultPhoto loads a photo attached to a result. Keys not listed on the
// result are reported as not found.
func (s *Service) ResultPhoto(ctx context.Context, resultID, key string) (blobstore.Object, error) {
	r, err := s.store.GetResult(ctx, resultID)
	if err != nil {
		return blobstore.Object{}, err
	}
	for _, k := range r.Photos {
		if k == key {
			return s.blobs.Get(ctx, blobstore.BucketResultPhotos, key)
		}
	}
	return blobstore.Object{}, fmt.Errorf("photo %s of result %s: %w", key, resultID, blobstore.ErrNotFound)
}
