package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rendezvous/internal/domain/model"
)

const announcementColumns = `id, title, content, priority, category, is_active, audio_key, created_at, updated_at`

func scanAnnouncement(row scanner) (model.Announcement, error) {
	var (
		a                model.Announcement
		priority         string
		created, updated int64
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &priority, &a.Category, &a.Active, &a.AudioKey,
		&created, &updated); err != nil {
		return model.Announcement{}, err
	}
	a.Priority = model.Priority(priority)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func prepareAnnouncement(a model.Announcement) (model.Announcement, error) {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return a, fmt.Errorf("%w: title is required", ErrInvalidRecord)
	case strings.TrimSpace(a.Content) == "":
		return a, fmt.Errorf("%w: content is required", ErrInvalidRecord)
	}
	if a.Priority == "" {
		a.Priority = model.PriorityMedium
	}
	if !a.Priority.Valid() {
		return a, fmt.Errorf("%w: unknown priority %q", ErrInvalidRecord, a.Priority)
	}
	return a, nil
}

// ListAnnouncements returns announcements, newest first.
func (s *SQLStore) ListAnnouncements(ctx context.Context, f AnnouncementFilter) ([]model.Announcement, error) {
	var (
		where []string
		args  []any
	)
	if f.ActiveOnly {
		where = append(where, `is_active = ?`)
		args = append(args, true)
	}
	if strings.TrimSpace(f.Query) != "" {
		p := likePattern(f.Query)
		where = append(where, `(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)`)
		args = append(args, p, p)
	}
	if f.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, f.Category)
	}
	if f.Priority != "" {
		where = append(where, `priority = ?`)
		args = append(args, string(f.Priority))
	}
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	out := make([]model.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListActiveAnnouncements returns the announcements visible to the public.
func (s *SQLStore) ListActiveAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	return s.ListAnnouncements(ctx, AnnouncementFilter{ActiveOnly: true})
}

// GetAnnouncement returns the announcement with id.
func (s *SQLStore) GetAnnouncement(ctx context.Context, id string) (model.Announcement, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+announcementColumns+` FROM announcements WHERE id = ?`), id)
	a, err := scanAnnouncement(row)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("get announcement %s: %w", id, notFound(err))
	}
	return a, nil
}

// CreateAnnouncement inserts a with a fresh ID. Priority defaults to medium.
func (s *SQLStore) CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	a, err := prepareAnnouncement(a)
	if err != nil {
		return model.Announcement{}, err
	}
	now := s.stamp()
	a.ID = s.newID()
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO announcements (`+announcementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.Title, a.Content, string(a.Priority), a.Category, a.Active, a.AudioKey, now, now)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	return s.GetAnnouncement(ctx, a.ID)
}

// UpdateAnnouncement replaces the editable fields of a.ID. The audio key is
// kept; it is managed through SetAnnouncementAudio.
func (s *SQLStore) UpdateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	a, err := prepareAnnouncement(a)
	if err != nil {
		return model.Announcement{}, err
	}
	err = s.execOne(ctx, `UPDATE announcements SET title = ?, content = ?, priority = ?, category = ?,
		is_active = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Content, string(a.Priority), a.Category, a.Active, s.stamp(), a.ID)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("update announcement %s: %w", a.ID, err)
	}
	return s.GetAnnouncement(ctx, a.ID)
}

// DeleteAnnouncement removes the announcement with id.
func (s *SQLStore) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM announcements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete announcement %s: %w", id, err)
	}
	return nil
}

// ToggleAnnouncement flips the active flag.
func (s *SQLStore) ToggleAnnouncement(ctx context.Context, id string) (model.Announcement, error) {
	err := s.execOne(ctx, `UPDATE announcements SET is_active = NOT is_active, updated_at = ? WHERE id = ?`,
		s.stamp(), id)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("toggle announcement %s: %w", id, err)
	}
	return s.GetAnnouncement(ctx, id)
}

// SetAnnouncementAudio records the blob key of the synthesised audio.
func (s *SQLStore) SetAnnouncementAudio(ctx context.Context, id, key string) (model.Announcement, error) {
	err := s.execOne(ctx, `UPDATE announcements SET audio_key = ?, updated_at = ? WHERE id = ?`,
		key, s.stamp(), id)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("set audio of announcement %s: %w", id, err)
	}
	return s.GetAnnouncement(ctx, id)
}
