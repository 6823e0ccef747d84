// Package repository persists festival records.
package repository

import (
	"context"

	"github.com/okian/rendezvous/internal/domain/model"
)

// EventFilter narrows ListEvents.
type EventFilter struct {
	Category string
}

// GalleryFilter narrows ListGallery. Query matches title, description and
// event name case-insensitively.
type GalleryFilter struct {
	Query    string
	Category string
}

// AnnouncementFilter narrows ListAnnouncements. Query matches title and
// content case-insensitively.
type AnnouncementFilter struct {
	Query      string
	Category   string
	Priority   model.Priority
	ActiveOnly bool
}

// Counts holds the number of rows per table.
type Counts struct {
	Events              int `json:"events"`
	Results             int `json:"results"`
	Gallery             int `json:"gallery"`
	Announcements       int `json:"announcements"`
	ActiveAnnouncements int `json:"active_announcements"`
}

// Store provides read/write access to festival records.
// Lookups of unknown IDs return ErrNotFound.
type Store interface {
	ListEvents(ctx context.Context, f EventFilter) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, e model.Event) (model.Event, error)
	// DeleteEvent removes the event; its results keep existing with a null
	// event reference.
	DeleteEvent(ctx context.Context, id string) error

	// ListResults returns every result with event name and category resolved.
	ListResults(ctx context.Context) ([]model.Result, error)
	ListResultsByEvent(ctx context.Context, eventID string) ([]model.Result, error)
	GetResult(ctx context.Context, id string) (model.Result, error)
	// CreateResult and UpdateResult store the points derived from position.
	CreateResult(ctx context.Context, r model.Result) (model.Result, error)
	UpdateResult(ctx context.Context, r model.Result) (model.Result, error)
	DeleteResult(ctx context.Context, id string) error
	AddResultPhoto(ctx context.Context, id, key string) (model.Result, error)

	ListGallery(ctx context.Context, f GalleryFilter) ([]model.GalleryItem, error)
	GetGalleryItem(ctx context.Context, id string) (model.GalleryItem, error)
	CreateGalleryItem(ctx context.Context, g model.GalleryItem) (model.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, g model.GalleryItem) (model.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id string) error
	LikeGalleryItem(ctx context.Context, id string) (model.GalleryItem, error)

	ListAnnouncements(ctx context.Context, f AnnouncementFilter) ([]model.Announcement, error)
	ListActiveAnnouncements(ctx context.Context) ([]model.Announcement, error)
	GetAnnouncement(ctx context.Context, id string) (model.Announcement, error)
	CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
	ToggleAnnouncement(ctx context.Context, id string) (model.Announcement, error)
	SetAnnouncementAudio(ctx context.Context, id, key string) (model.Announcement, error)

	Counts(ctx context.Context) (Counts, error)
	// Reset deletes every row from every table.
	Reset(ctx context.Context) error
	Close() error
}
