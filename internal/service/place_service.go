package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/vbonduro/travelwish/internal/domain"
	"github.com/vbonduro/travelwish/internal/imaging"
	"github.com/vbonduro/travelwish/internal/photostore"
	"github.com/vbonduro/travelwish/internal/store"
)

var (
	ErrNotFound     = errors.New("place not found")
	ErrForbidden    = errors.New("place belongs to another user")
	ErrNotVisited   = errors.New("place has not been visited yet")
	ErrInvalidPlace = errors.New("invalid place")
)

const maxPlaceNameLen = 200

// placeRepository is the subset of store.PlaceStore that PlaceService requires.
type placeRepository interface {
	Create(ctx context.Context, userID int64, name string, visited bool) (*domain.Place, error)
	GetByID(ctx context.Context, id int64) (*domain.Place, error)
	ListByUser(ctx context.Context, userID int64, visited bool) ([]*domain.Place, error)
	MarkVisited(ctx context.Context, id int64) error
	UpdateReview(ctx context.Context, id int64, review domain.Review, photoKey, photoMime string) error
	Delete(ctx context.Context, id int64) error
}

// Photo is an uploaded review image whose type has already been sniffed.
type Photo struct {
	Data     []byte
	MimeType string
}

// PlaceService owns the place lifecycle. Every operation on an existing place
// resolves it through ownedPlace, so nothing is read or changed for a user
// who does not own it.
type PlaceService struct {
	places      placeRepository
	photoStg    photostore.PhotoStore
	maxPhotoDim int
	logger      *slog.Logger
}

func NewPlaceService(places placeRepository, photoStg photostore.PhotoStore, maxPhotoDim int, logger *slog.Logger) *PlaceService {
	return &PlaceService{
		places:      places,
		photoStg:    photoStg,
		maxPhotoDim: maxPhotoDim,
		logger:      logger,
	}
}

// ListWishlist returns the user's unvisited places ordered by name.
func (s *PlaceService) ListWishlist(ctx context.Context, user *domain.User) ([]*domain.Place, error) {
	return s.places.ListByUser(ctx, user.ID, false)
}

// ListVisited returns the user's visited places ordered by name.
func (s *PlaceService) ListVisited(ctx context.Context, user *domain.User) ([]*domain.Place, error) {
	return s.places.ListByUser(ctx, user.ID, true)
}

func (s *PlaceService) CreatePlace(ctx context.Context, user *domain.User, name string, visited bool) (*domain.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlace)
	}
	if utf8.RuneCountInString(name) > maxPlaceNameLen {
		return nil, fmt.Errorf("%w: name too long", ErrInvalidPlace)
	}

	place, err := s.places.Create(ctx, user.ID, name, visited)
	if err != nil {
		return nil, err
	}
	s.logger.Info("place created", "place_id", place.ID, "user_id", user.ID)
	return place, nil
}

func (s *PlaceService) GetPlace(ctx context.Context, user *domain.User, placeID int64) (*domain.Place, error) {
	return s.ownedPlace(ctx, user, placeID)
}

// MarkVisited flips visited to true. Marking an already visited place is a
// no-op success.
func (s *PlaceService) MarkVisited(ctx context.Context, user *domain.User, placeID int64) error {
	place, err := s.ownedPlace(ctx, user, placeID)
	if err != nil {
		return err
	}
	if place.Visited {
		return nil
	}
	if err := s.places.MarkVisited(ctx, placeID); err != nil {
		return storeError("failed to mark visited", err)
	}
	s.logger.Info("place visited", "place_id", placeID, "user_id", user.ID)
	return nil
}

// SubmitReview replaces the review fields of a visited place. A nil photo
// keeps the current one; a new photo replaces it and the old object is
// removed once the record points at the new one.
func (s *PlaceService) SubmitReview(ctx context.Context, user *domain.User, placeID int64, review domain.Review, photo *Photo) (*domain.Place, error) {
	place, err := s.ownedPlace(ctx, user, placeID)
	if err != nil {
		return nil, err
	}
	if !place.Visited {
		return nil, ErrNotVisited
	}

	photoKey, photoMime := place.PhotoKey, place.PhotoMime
	var newKey string
	if photo != nil {
		newKey, err = s.savePhoto(ctx, placeID, photo)
		if err != nil {
			return nil, err
		}
		photoKey, photoMime = newKey, photo.MimeType
	}

	if err := s.places.UpdateReview(ctx, placeID, review, photoKey, photoMime); err != nil {
		if newKey != "" {
			if stgErr := s.photoStg.Delete(ctx, newKey); stgErr != nil {
				s.logger.Error("failed to roll back photo after review error", "place_id", placeID, "error", stgErr)
			}
		}
		return nil, storeError("failed to save review", err)
	}

	if newKey != "" && place.HasPhoto() {
		s.removePhoto(ctx, place.PhotoKey)
	}

	s.logger.Info("review saved", "place_id", placeID, "user_id", user.ID, "photo_replaced", newKey != "")
	return s.places.GetByID(ctx, placeID)
}

func (s *PlaceService) DeletePlace(ctx context.Context, user *domain.User, placeID int64) error {
	place, err := s.ownedPlace(ctx, user, placeID)
	if err != nil {
		return err
	}
	if err := s.places.Delete(ctx, placeID); err != nil {
		return storeError("failed to delete place", err)
	}
	if place.HasPhoto() {
		s.removePhoto(ctx, place.PhotoKey)
	}
	s.logger.Info("place deleted", "place_id", placeID, "user_id", user.ID)
	return nil
}

// OpenPhoto returns the review photo of an owned place. The caller must close
// the reader.
func (s *PlaceService) OpenPhoto(ctx context.Context, user *domain.User, placeID int64) (io.ReadCloser, string, error) {
	place, err := s.ownedPlace(ctx, user, placeID)
	if err != nil {
		return nil, "", err
	}
	if !place.HasPhoto() {
		return nil, "", ErrNotFound
	}

	rc, mimeType, err := s.photoStg.Get(ctx, place.PhotoKey)
	if errors.Is(err, photostore.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	if place.PhotoMime != "" {
		mimeType = place.PhotoMime
	}
	return rc, mimeType, nil
}

func (s *PlaceService) ownedPlace(ctx context.Context, user *domain.User, placeID int64) (*domain.Place, error) {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	if place == nil {
		return nil, ErrNotFound
	}
	if !domain.Owns(user, place) {
		s.logger.Warn("ownership check failed", "place_id", placeID, "user_id", userID(user))
		return nil, ErrForbidden
	}
	return place, nil
}

func (s *PlaceService) savePhoto(ctx context.Context, placeID int64, photo *Photo) (string, error) {
	data, err := imaging.Fit(photo.Data, photo.MimeType, s.maxPhotoDim)
	if err != nil {
		// Undecodable but correctly sniffed images are stored as uploaded.
		s.logger.Warn("photo resize skipped", "place_id", placeID, "error", err)
		data = photo.Data
	}

	key, err := s.photoStg.Save(ctx, fmt.Sprintf("place_%d", placeID), photo.MimeType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}
	s.logger.Debug("photo saved", "place_id", placeID, "storage_key", key, "bytes", len(data))
	return key, nil
}

func (s *PlaceService) removePhoto(ctx context.Context, key string) {
	if err := s.photoStg.Delete(ctx, key); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		s.logger.Error("failed to delete photo file", "storage_key", key, "error", err)
	}
}

// storeError wraps a repository error. A place that vanished between lookup
// and write, e.g. deleted by a concurrent request, is reported as ErrNotFound.
func storeError(msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func userID(u *domain.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
