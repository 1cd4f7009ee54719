package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/travelwish/internal/db"
	"github.com/vbonduro/travelwish/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newTestUser(t *testing.T, d *sql.DB, username string) *domain.User {
	t.Helper()
	user, err := NewUserStore(d).Ensure(context.Background(), username)
	require.NoError(t, err)
	return user
}

func TestPlaceStoreCreate(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	places := NewPlaceStore(d)

	place, err := places.Create(context.Background(), alice.ID, "Tokyo", false)
	require.NoError(t, err)
	assert.NotZero(t, place.ID)
	assert.Equal(t, alice.ID, place.UserID)
	assert.Equal(t, "Tokyo", place.Name)
	assert.False(t, place.Visited)
	assert.Empty(t, place.Notes)
	assert.Nil(t, place.DateVisited)
	assert.False(t, place.HasPhoto())
}

func TestPlaceStoreCreate_EmptyNameRejected(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	places := NewPlaceStore(d)

	_, err := places.Create(context.Background(), alice.ID, "", false)
	assert.Error(t, err)
}

func TestPlaceStoreGetByID_NotFound(t *testing.T) {
	d := openTestDB(t)
	places := NewPlaceStore(d)

	place, err := places.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestPlaceStoreListByUser(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")
	places := NewPlaceStore(d)
	ctx := context.Background()

	_, err := places.Create(ctx, alice.ID, "Tokyo", false)
	require.NoError(t, err)
	_, err = places.Create(ctx, alice.ID, "Lisbon", false)
	require.NoError(t, err)
	_, err = places.Create(ctx, alice.ID, "Cairo", true)
	require.NoError(t, err)
	_, err = places.Create(ctx, bob.ID, "Auckland", false)
	require.NoError(t, err)

	wishlist, err := places.ListByUser(ctx, alice.ID, false)
	require.NoError(t, err)
	require.Len(t, wishlist, 2)
	assert.Equal(t, "Lisbon", wishlist[0].Name)
	assert.Equal(t, "Tokyo", wishlist[1].Name)

	visited, err := places.ListByUser(ctx, alice.ID, true)
	require.NoError(t, err)
	require.Len(t, visited, 1)
	assert.Equal(t, "Cairo", visited[0].Name)
}

func TestPlaceStoreMarkVisited(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	places := NewPlaceStore(d)
	ctx := context.Background()

	place, err := places.Create(ctx, alice.ID, "Tokyo", false)
	require.NoError(t, err)

	require.NoError(t, places.MarkVisited(ctx, place.ID))
	require.NoError(t, places.MarkVisited(ctx, place.ID))

	got, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.True(t, got.Visited)
}

func TestPlaceStoreMarkVisited_NotFound(t *testing.T) {
	d := openTestDB(t)
	places := NewPlaceStore(d)

	assert.ErrorIs(t, places.MarkVisited(context.Background(), 42), ErrNotFound)
	assert.ErrorIs(t, places.UpdateReview(context.Background(), 42, domain.Review{}, "", ""), ErrNotFound)
}

func TestPlaceStoreUpdateReview(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	places := NewPlaceStore(d)
	ctx := context.Background()

	place, err := places.Create(ctx, alice.ID, "Tokyo", true)
	require.NoError(t, err)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	review := domain.Review{Notes: "Great trip", DateVisited: &date}
	require.NoError(t, places.UpdateReview(ctx, place.ID, review, "place_1_abc.jpg", "image/jpeg"))

	got, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, "Great trip", got.Notes)
	require.NotNil(t, got.DateVisited)
	assert.Equal(t, "2024-05-01", got.DateVisitedString())
	assert.Equal(t, "place_1_abc.jpg", got.PhotoKey)
	assert.Equal(t, "image/jpeg", got.PhotoMime)
	assert.Equal(t, alice.ID, got.UserID)
}

func TestPlaceStoreUpdateReview_ClearsFields(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	places := NewPlaceStore(d)
	ctx := context.Background()

	place, err := places.Create(ctx, alice.ID, "Tokyo", true)
	require.NoError(t, err)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, places.UpdateReview(ctx, place.ID, domain.Review{Notes: "x", DateVisited: &date}, "k.jpg", "image/jpeg"))
	require.NoError(t, places.UpdateReview(ctx, place.ID, domain.Review{}, "", ""))

	got, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
	assert.Nil(t, got.DateVisited)
	assert.False(t, got.HasPhoto())
}

func TestPlaceStoreDelete(t *testing.T) {
	d := openTestDB(t)
	alice := newTestUser(t, d, "alice")
	places := NewPlaceStore(d)
	ctx := context.Background()

	place, err := places.Create(ctx, alice.ID, "Temp", false)
	require.NoError(t, err)

	require.NoError(t, places.Delete(ctx, place.ID))

	got, err := places.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, places.Delete(ctx, place.ID), ErrNotFound)
}
