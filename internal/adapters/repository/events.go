package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rendezvous/internal/domain/model"
)

const eventColumns = `id, name, category, event_date, event_time, venue, description, created_at, updated_at`

func scanEvent(row scanner) (model.Event, error) {
	var (
		e                model.Event
		created, updated int64
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Date, &e.Time, &e.Venue, &e.Description, &created, &updated); err != nil {
		return model.Event{}, err
	}
	e.CreatedAt = fromMillis(created)
	e.UpdatedAt = fromMillis(updated)
	return e, nil
}

func validateEvent(e model.Event) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: event name is required", ErrInvalidRecord)
	}
	return nil
}

// ListEvents returns events ordered by date then time.
func (s *SQLStore) ListEvents(ctx context.Context, f EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if f.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY event_date, event_time, name`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEvent returns the event with id.
func (s *SQLStore) GetEvent(ctx context.Context, id string) (model.Event, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+eventColumns+` FROM events WHERE id = ?`), id)
	e, err := scanEvent(row)
	if err != nil {
		return model.Event{}, fmt.Errorf("get event %s: %w", id, notFound(err))
	}
	return e, nil
}

// CreateEvent inserts e with a fresh ID.
func (s *SQLStore) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if err := validateEvent(e); err != nil {
		return model.Event{}, err
	}
	now := s.stamp()
	e.ID = s.newID()
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.Name, e.Category, e.Date, e.Time, e.Venue, e.Description, now, now)
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	return s.GetEvent(ctx, e.ID)
}

// UpdateEvent replaces the editable fields of the event with e.ID.
func (s *SQLStore) UpdateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if err := validateEvent(e); err != nil {
		return model.Event{}, err
	}
	err := s.execOne(ctx, `UPDATE events SET name = ?, category = ?, event_date = ?, event_time = ?,
		venue = ?, description = ?, updated_at = ? WHERE id = ?`,
		e.Name, e.Category, e.Date, e.Time, e.Venue, e.Description, s.stamp(), e.ID)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event %s: %w", e.ID, err)
	}
	return s.GetEvent(ctx, e.ID)
}

// DeleteEvent removes the event with id.
func (s *SQLStore) DeleteEvent(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}
