package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/travelwish/internal/domain"
)

// ErrNotFound is returned by updates and deletes that match no place.
var ErrNotFound = errors.New("place not found")

type PlaceStore struct {
	db *sql.DB
}

func NewPlaceStore(db *sql.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

const placeColumns = `id, user_id, name, visited, notes, date_visited, photo_key, photo_mime, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(row rowScanner) (*domain.Place, error) {
	place := &domain.Place{}
	var dateVisited, photoKey, photoMime sql.NullString
	err := row.Scan(&place.ID, &place.UserID, &place.Name, &place.Visited, &place.Notes,
		&dateVisited, &photoKey, &photoMime, &place.CreatedAt, &place.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if dateVisited.Valid && dateVisited.String != "" {
		d, err := time.Parse(domain.DateLayout, dateVisited.String)
		if err != nil {
			return nil, fmt.Errorf("invalid date_visited %q: %w", dateVisited.String, err)
		}
		place.DateVisited = &d
	}
	place.PhotoKey = photoKey.String
	place.PhotoMime = photoMime.String
	return place, nil
}

func (s *PlaceStore) Create(ctx context.Context, userID int64, name string, visited bool) (*domain.Place, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO places (user_id, name, visited) VALUES (?, ?, ?)
	`, userID, name, visited)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PlaceStore) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	place, err := scanPlace(s.db.QueryRowContext(ctx, `
		SELECT `+placeColumns+` FROM places WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	return place, nil
}

// ListByUser returns the user's places with the given visited flag, ordered
// by name.
func (s *PlaceStore) ListByUser(ctx context.Context, userID int64, visited bool) ([]*domain.Place, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+placeColumns+` FROM places
		WHERE user_id = ? AND visited = ?
		ORDER BY name ASC, id ASC
	`, userID, visited)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var places []*domain.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}

	return places, nil
}

// MarkVisited sets visited. There is deliberately no way to clear it.
func (s *PlaceStore) MarkVisited(ctx context.Context, id int64) error {
	return s.exec(ctx, "mark place visited", `
		UPDATE places SET visited = 1, updated_at = datetime('now') WHERE id = ?
	`, id)
}

// UpdateReview replaces the review fields. photoKey and photoMime are written
// as given, so callers keeping an existing photo must pass it back in.
func (s *PlaceStore) UpdateReview(ctx context.Context, id int64, review domain.Review, photoKey, photoMime string) error {
	var dateVisited any
	if review.DateVisited != nil {
		dateVisited = review.DateVisited.Format(domain.DateLayout)
	}
	return s.exec(ctx, "update review", `
		UPDATE places
		SET notes = ?, date_visited = ?, photo_key = NULLIF(?, ''), photo_mime = NULLIF(?, ''),
		    updated_at = datetime('now')
		WHERE id = ?
	`, review.Notes, dateVisited, photoKey, photoMime, id)
}

func (s *PlaceStore) Delete(ctx context.Context, id int64) error {
	return s.exec(ctx, "delete place", `
		DELETE FROM places WHERE id = ?
	`, id)
}

func (s *PlaceStore) exec(ctx context.Context, op, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
