// Package model contains domain models passed between layers.
package model

import "time"

// Event is a scheduled festival activity participants compete in.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Venue       string    `json:"venue"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Result is one participant's placement in one event.
// EventID is empty when the event reference is null; EventName and
// EventCategory are resolved from the owning event at read time.
type Result struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id,omitempty"`
	Participant   string    `json:"participant"`
	Position      int       `json:"position"`
	Points        int       `json:"points"`
	EventName     string    `json:"event_name,omitempty"`
	EventCategory string    `json:"event_category,omitempty"`
	Photos        []string  `json:"photos"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeaderboardEntry is one participant's aggregate standing.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Participant string `json:"participant"`
	TotalPoints int    `json:"total_points"`
	EventCount  int    `json:"event_count"`
}

// GalleryItem is an uploaded festival photo.
type GalleryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventName   string    `json:"event_name"`
	Category    string    `json:"category"`
	ImageKey    string    `json:"image_key"`
	ContentType string    `json:"content_type"`
	LikesCount  int       `json:"likes_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Priority orders announcements by urgency.
type Priority string

// Announcement priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Announcement is a notice published to festival visitors.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	Category  string    `json:"category"`
	Active    bool      `json:"is_active"`
	AudioKey  string    `json:"audio_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
