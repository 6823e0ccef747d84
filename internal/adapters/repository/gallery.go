package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rendezvous/internal/domain/model"
)

const galleryColumns = `id, title, description, event_name, category, image_key, content_type,
	likes_count, created_at, updated_at`

func scanGalleryItem(row scanner) (model.GalleryItem, error) {
	var (
		g                model.GalleryItem
		created, updated int64
	)
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.EventName, &g.Category, &g.ImageKey,
		&g.ContentType, &g.LikesCount, &created, &updated); err != nil {
		return model.GalleryItem{}, err
	}
	g.CreatedAt = fromMillis(created)
	g.UpdatedAt = fromMillis(updated)
	return g, nil
}

func validateGalleryItem(g model.GalleryItem) error {
	switch {
	case strings.TrimSpace(g.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidRecord)
	case g.ImageKey == "":
		return fmt.Errorf("%w: image is required", ErrInvalidRecord)
	}
	return nil
}

// ListGallery returns gallery items, newest first.
func (s *SQLStore) ListGallery(ctx context.Context, f GalleryFilter) ([]model.GalleryItem, error) {
	var (
		where []string
		args  []any
	)
	if strings.TrimSpace(f.Query) != "" {
		p := likePattern(f.Query)
		where = append(where, `(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(event_name) LIKE ?)`)
		args = append(args, p, p, p)
	}
	if f.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, f.Category)
	}
	query := `SELECT ` + galleryColumns + ` FROM gallery`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	out := make([]model.GalleryItem, 0)
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery item: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGalleryItem returns the gallery item with id.
func (s *SQLStore) GetGalleryItem(ctx context.Context, id string) (model.GalleryItem, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+galleryColumns+` FROM gallery WHERE id = ?`), id)
	g, err := scanGalleryItem(row)
	if err != nil {
		return model.GalleryItem{}, fmt.Errorf("get gallery item %s: %w", id, notFound(err))
	}
	return g, nil
}

// CreateGalleryItem inserts g with a fresh ID and zero likes.
func (s *SQLStore) CreateGalleryItem(ctx context.Context, g model.GalleryItem) (model.GalleryItem, error) {
	if err := validateGalleryItem(g); err != nil {
		return model.GalleryItem{}, err
	}
	now := s.stamp()
	g.ID = s.newID()
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO gallery (`+galleryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`),
		g.ID, g.Title, g.Description, g.EventName, g.Category, g.ImageKey, g.ContentType, now, now)
	if err != nil {
		return model.GalleryItem{}, fmt.Errorf("create gallery item: %w", err)
	}
	return s.GetGalleryItem(ctx, g.ID)
}

// UpdateGalleryItem replaces the descriptive fields of g.ID. The image and
// like count are kept.
func (s *SQLStore) UpdateGalleryItem(ctx context.Context, g model.GalleryItem) (model.GalleryItem, error) {
	if strings.TrimSpace(g.Title) == "" {
		return model.GalleryItem{}, fmt.Errorf("%w: title is required", ErrInvalidRecord)
	}
	err := s.execOne(ctx, `UPDATE gallery SET title = ?, description = ?, event_name = ?, category = ?,
		updated_at = ? WHERE id = ?`,
		g.Title, g.Description, g.EventName, g.Category, s.stamp(), g.ID)
	if err != nil {
		return model.GalleryItem{}, fmt.Errorf("update gallery item %s: %w", g.ID, err)
	}
	return s.GetGalleryItem(ctx, g.ID)
}

// DeleteGalleryItem removes the gallery item with id.
func (s *SQLStore) DeleteGalleryItem(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM gallery WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete gallery item %s: %w", id, err)
	}
	return nil
}

// LikeGalleryItem increments the like counter atomically.
func (s *SQLStore) LikeGalleryItem(ctx context.Context, id string) (model.GalleryItem, error) {
	if err := s.execOne(ctx, `UPDATE gallery SET likes_count = likes_count + 1 WHERE id = ?`, id); err != nil {
		return model.GalleryItem{}, fmt.Errorf("like gallery item %s: %w", id, err)
	}
	return s.GetGalleryItem(ctx, id)
}
