package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/adapters/tts"
	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/pkg/logger"
)

// CreateEvent stores a new event.
func (s *Service) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	return s.store.CreateEvent(ctx, e)
}

// GetEvent loads one event.
func (s *Service) GetEvent(ctx context.Context, id string) (model.Event, error) {
	return s.store.GetEvent(ctx, id)
}

// UpdateEvent replaces an event's fields. A rename drops the cached
// posters of the event's results.
func (s *Service) UpdateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	old, err := s.store.GetEvent(ctx, e.ID)
	if err != nil {
		return model.Event{}, err
	}
	var stale []model.Result
	if old.Name != e.Name {
		if stale, err = s.store.ListResultsByEvent(ctx, e.ID); err != nil {
			return model.Event{}, err
		}
	}
	updated, err := s.store.UpdateEvent(ctx, e)
	if err != nil {
		return model.Event{}, err
	}
	s.prunePosters(ctx, stale...)
	return updated, nil
}

// DeleteEvent removes an event. Its results move to the unknown-event group
// and their cached posters are dropped.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	stale, err := s.store.ListResultsByEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.prunePosters(ctx, stale...)
	return nil
}

// Results lists every result without grouping.
func (s *Service) Results(ctx context.Context) ([]model.Result, error) {
	return s.store.ListResults(ctx)
}

// GetResult loads one result.
func (s *Service) GetResult(ctx context.Context, id string) (model.Result, error) {
	return s.store.GetResult(ctx, id)
}

// CreateResult stores a result. A non-empty event ID must name an existing
// event.
func (s *Service) CreateResult(ctx context.Context, r model.Result) (model.Result, error) {
	if err := s.checkEventRef(ctx, r.EventID); err != nil {
		return model.Result{}, err
	}
	return s.store.CreateResult(ctx, r)
}

// UpdateResult replaces a result's event, participant and position and
// drops the posters rendered for the previous values.
func (s *Service) UpdateResult(ctx context.Context, r model.Result) (model.Result, error) {
	if err := s.checkEventRef(ctx, r.EventID); err != nil {
		return model.Result{}, err
	}
	old, err := s.store.GetResult(ctx, r.ID)
	if err != nil {
		return model.Result{}, err
	}
	updated, err := s.store.UpdateResult(ctx, r)
	if err != nil {
		return model.Result{}, err
	}
	if old.EventName != updated.EventName || old.Participant != updated.Participant ||
		old.Position != updated.Position {
		s.prunePosters(ctx, old)
	}
	return updated, nil
}

// DeleteResult removes a result and its photos.
func (s *Service) DeleteResult(ctx context.Context, id string) error {
	r, err := s.store.GetResult(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteResult(ctx, id); err != nil {
		return err
	}
	for _, key := range r.Photos {
		s.dropBlob(ctx, blobstore.BucketResultPhotos, key)
	}
	s.prunePosters(ctx, r)
	return nil
}

func (s *Service) checkEventRef(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: event %s does not exist", ErrInvalidInput, eventID)
		}
		return err
	}
	return nil
}

// AddResultPhoto stores an uploaded photo and attaches it to a result.
func (s *Service) AddResultPhoto(ctx context.Context, resultID, contentType string, data []byte) (model.Result, error) {
	if len(data) == 0 {
		return model.Result{}, fmt.Errorf("%w: empty photo", ErrInvalidInput)
	}
	if _, err := s.store.GetResult(ctx, resultID); err != nil {
		return model.Result{}, err
	}
	key := uuid.NewString()
	if err := s.blobs.Put(ctx, blobstore.BucketResultPhotos, key, contentType, data); err != nil {
		return model.Result{}, err
	}
	r, err := s.store.AddResultPhoto(ctx, resultID, key)
	if err != nil {
		s.dropBlob(ctx, blobstore.BucketResultPhotos, key)
		return model.Result{}, err
	}
	return r, nil
}

// GetGalleryItem loads one gallery item.
func (s *Service) GetGalleryItem(ctx context.Context, id string) (model.GalleryItem, error) {
	return s.store.GetGalleryItem(ctx, id)
}

// CreateGalleryItem stores an uploaded image and its gallery record.
func (s *Service) CreateGalleryItem(ctx context.Context, g model.GalleryItem, contentType string, data []byte) (model.GalleryItem, error) {
	if len(data) == 0 {
		return model.GalleryItem{}, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return model.GalleryItem{}, fmt.Errorf("%w: content type %q is not an image", ErrInvalidInput, contentType)
	}
	g.ImageKey = uuid.NewString()
	g.ContentType = contentType
	g.LikesCount = 0
	if err := s.blobs.Put(ctx, blobstore.BucketGallery, g.ImageKey, contentType, data); err != nil {
		return model.GalleryItem{}, err
	}
	created, err := s.store.CreateGalleryItem(ctx, g)
	if err != nil {
		s.dropBlob(ctx, blobstore.BucketGallery, g.ImageKey)
		return model.GalleryItem{}, err
	}
	return created, nil
}

// UpdateGalleryItem replaces a gallery item's text fields. The image is
// kept.
func (s *Service) UpdateGalleryItem(ctx context.Context, g model.GalleryItem) (model.GalleryItem, error) {
	return s.store.UpdateGalleryItem(ctx, g)
}

// DeleteGalleryItem removes a gallery item and its image.
func (s *Service) DeleteGalleryItem(ctx context.Context, id string) error {
	item, err := s.store.GetGalleryItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteGalleryItem(ctx, id); err != nil {
		return err
	}
	s.dropBlob(ctx, blobstore.BucketGallery, item.ImageKey)
	return nil
}

// GetAnnouncement loads one announcement.
func (s *Service) GetAnnouncement(ctx context.Context, id string) (model.Announcement, error) {
	return s.store.GetAnnouncement(ctx, id)
}

// CreateAnnouncement stores a new announcement.
func (s *Service) CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	a.AudioKey = ""
	return s.store.CreateAnnouncement(ctx, a)
}

// UpdateAnnouncement replaces an announcement's fields.
func (s *Service) UpdateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	return s.store.UpdateAnnouncement(ctx, a)
}

// ToggleAnnouncement flips an announcement between active and inactive.
func (s *Service) ToggleAnnouncement(ctx context.Context, id string) (model.Announcement, error) {
	return s.store.ToggleAnnouncement(ctx, id)
}

// DeleteAnnouncement removes an announcement and its audio.
func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	a, err := s.store.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	if a.AudioKey != "" {
		s.dropBlob(ctx, blobstore.BucketAudio, a.AudioKey)
	}
	return nil
}

// SynthesizeAnnouncement reads an announcement aloud through the TTS
// service and stores the audio. A previous recording is replaced.
func (s *Service) SynthesizeAnnouncement(ctx context.Context, id, voice string) (model.Announcement, error) {
	if !s.speech.Enabled() {
		return model.Announcement{}, fmt.Errorf("%w: text-to-speech", ErrNotConfigured)
	}
	a, err := s.store.GetAnnouncement(ctx, id)
	if err != nil {
		return model.Announcement{}, err
	}
	audio, err := s.speech.Synthesize(ctx, a.Title+". "+a.Content, voice)
	if err != nil {
		return model.Announcement{}, err
	}

	key := uuid.NewString()
	if err := s.blobs.Put(ctx, blobstore.BucketAudio, key, tts.ContentType, audio); err != nil {
		return model.Announcement{}, err
	}
	updated, err := s.store.SetAnnouncementAudio(ctx, id, key)
	if err != nil {
		s.dropBlob(ctx, blobstore.BucketAudio, key)
		return model.Announcement{}, err
	}
	if a.AudioKey != "" {
		s.dropBlob(ctx, blobstore.BucketAudio, a.AudioKey)
	}
	s.logger.Info(ctx, "announcement audio stored",
		logger.String("announcement", id),
		logger.Int("bytes", len(audio)),
	)
	return updated, nil
}

func (s *Service) dropBlob(ctx context.Context, bucket, key string) {
	if err := s.blobs.Delete(ctx, bucket, key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		s.logger.Warn(ctx, "deleting blob failed",
			logger.String("bucket", bucket),
			logger.String("key", key),
			logger.Error(err),
		)
	}
}
