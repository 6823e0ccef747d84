package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/scoring"
)

const resultSelect = `SELECT r.id, r.event_id, r.participant, r.position, r.points, r.photos,
	r.created_at, r.updated_at, e.name, e.category
	FROM results r LEFT JOIN events e ON e.id = r.event_id`

func scanResult(row scanner) (model.Result, error) {
	var (
		r                   model.Result
		eventID             sql.NullString
		eventName, category sql.NullString
		photos              string
		created, updated    int64
	)
	if err := row.Scan(&r.ID, &eventID, &r.Participant, &r.Position, &r.Points, &photos,
		&created, &updated, &eventName, &category); err != nil {
		return model.Result{}, err
	}
	r.EventID = eventID.String
	r.EventName = eventName.String
	r.EventCategory = category.String
	if err := json.Unmarshal([]byte(photos), &r.Photos); err != nil {
		return model.Result{}, fmt.Errorf("decode photos of %s: %w", r.ID, err)
	}
	if r.Photos == nil {
		r.Photos = []string{}
	}
	r.CreatedAt = fromMillis(created)
	r.UpdatedAt = fromMillis(updated)
	return r, nil
}

// prepareResult validates r and derives its points from the position.
func prepareResult(r model.Result) (model.Result, error) {
	if strings.TrimSpace(r.Participant) == "" {
		return model.Result{}, fmt.Errorf("%w: participant is required", ErrInvalidRecord)
	}
	pts, err := scoring.PointsForPosition(r.Position)
	if err != nil {
		return model.Result{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	r.Points = pts
	return r, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *SQLStore) queryResults(ctx context.Context, query string, args ...any) ([]model.Result, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := make([]model.Result, 0)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListResults returns all results in creation order.
func (s *SQLStore) ListResults(ctx context.Context) ([]model.Result, error) {
	return s.queryResults(ctx, resultSelect+` ORDER BY r.created_at, r.id`)
}

// ListResultsByEvent returns the results of one event by position.
func (s *SQLStore) ListResultsByEvent(ctx context.Context, eventID string) ([]model.Result, error) {
	return s.queryResults(ctx, resultSelect+` WHERE r.event_id = ? ORDER BY r.position, r.created_at`, eventID)
}

// GetResult returns the result with id.
func (s *SQLStore) GetResult(ctx context.Context, id string) (model.Result, error) {
	r, err := scanResult(s.db.QueryRowContext(ctx, s.rebind(resultSelect+` WHERE r.id = ?`), id))
	if err != nil {
		return model.Result{}, fmt.Errorf("get result %s: %w", id, notFound(err))
	}
	return r, nil
}

// CreateResult inserts r with a fresh ID.
func (s *SQLStore) CreateResult(ctx context.Context, r model.Result) (model.Result, error) {
	r, err := prepareResult(r)
	if err != nil {
		return model.Result{}, err
	}
	photos, err := json.Marshal(nonNil(r.Photos))
	if err != nil {
		return model.Result{}, fmt.Errorf("encode photos: %w", err)
	}
	now := s.stamp()
	r.ID = s.newID()
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO results
		(id, event_id, participant, position, points, photos, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, nullable(r.EventID), r.Participant, r.Position, r.Points, string(photos), now, now)
	if err != nil {
		return model.Result{}, fmt.Errorf("create result: %w", err)
	}
	return s.GetResult(ctx, r.ID)
}

// UpdateResult replaces event, participant and position of r.ID.
// Photos are managed through AddResultPhoto.
func (s *SQLStore) UpdateResult(ctx context.Context, r model.Result) (model.Result, error) {
	r, err := prepareResult(r)
	if err != nil {
		return model.Result{}, err
	}
	err = s.execOne(ctx, `UPDATE results SET event_id = ?, participant = ?, position = ?, points = ?,
		updated_at = ? WHERE id = ?`,
		nullable(r.EventID), r.Participant, r.Position, r.Points, s.stamp(), r.ID)
	if err != nil {
		return model.Result{}, fmt.Errorf("update result %s: %w", r.ID, err)
	}
	return s.GetResult(ctx, r.ID)
}

// DeleteResult removes the result with id.
func (s *SQLStore) DeleteResult(ctx context.Context, id string) error {
	if err := s.execOne(ctx, `DELETE FROM results WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete result %s: %w", id, err)
	}
	return nil
}

// AddResultPhoto appends key to the result's photo list. Adding a key that
// is already present is a no-op. The read and the write share one
// transaction so concurrent attaches to the same result all persist.
func (s *SQLStore) AddResultPhoto(ctx context.Context, id, key string) (model.Result, error) {
	if key == "" {
		return model.Result{}, fmt.Errorf("%w: photo key is required", ErrInvalidRecord)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Result{}, fmt.Errorf("begin photo attach: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT photos FROM results WHERE id = ?`
	if s.driver == DriverPostgres {
		query += ` FOR UPDATE`
	}
	var raw string
	if err := tx.QueryRowContext(ctx, s.rebind(query), id).Scan(&raw); err != nil {
		return model.Result{}, fmt.Errorf("get result %s: %w", id, notFound(err))
	}
	var photos []string
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		return model.Result{}, fmt.Errorf("decode photos of %s: %w", id, err)
	}

	if !slices.Contains(photos, key) {
		encoded, err := json.Marshal(append(photos, key))
		if err != nil {
			return model.Result{}, fmt.Errorf("encode photos: %w", err)
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE results SET photos = ?, updated_at = ? WHERE id = ?`),
			string(encoded), s.stamp(), id); err != nil {
			return model.Result{}, fmt.Errorf("add photo to result %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Result{}, fmt.Errorf("commit photo attach: %w", err)
	}
	return s.GetResult(ctx, id)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
